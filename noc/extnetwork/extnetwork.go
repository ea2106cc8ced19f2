// Package extnetwork provides the rendezvous point that coherence
// controllers bind their network endpoints to. The network here is purely a
// wiring-time abstraction: it hands out opaque transport handles and keeps a
// roster of who bound what, while the timing model of the fabric stays
// external.
package extnetwork

import "github.com/sarchlab/vihammer/sim"

// Side tells which direction of the network a transport handle represents.
type Side int

// The two sides of the network. Traffic that leaves a node uses the outbound
// side; traffic that arrives at a node uses the inbound side.
const (
	SideOutbound Side = iota
	SideInbound
)

func (s Side) String() string {
	switch s {
	case SideOutbound:
		return "Outbound"
	case SideInbound:
		return "Inbound"
	default:
		return "Unknown"
	}
}

// A Transport is an opaque handle to one side of one network. Handles from
// the same network and side compare equal, which is what makes endpoint
// binding idempotent.
type Transport struct {
	network *ExtNetwork
	side    Side
}

// Network returns the network the transport belongs to.
func (t Transport) Network() *ExtNetwork {
	return t.network
}

// Side returns which side of the network the transport represents.
func (t Transport) Side() Side {
	return t.side
}

// IsZero tells if the transport is the zero handle, i.e., not attached to any
// network.
func (t Transport) IsZero() bool {
	return t.network == nil
}

// A Binding records that one endpoint role of one node is attached to the
// network.
type Binding struct {
	NodeName string
	Role     string
	Side     Side
}

// ExtNetwork is the globally addressable interconnect that every coherence
// controller in the topology attaches to.
type ExtNetwork struct {
	name     string
	bindings []Binding
}

// New creates a network with the given name.
func New(name string) *ExtNetwork {
	sim.NameMustBeValid(name)

	return &ExtNetwork{name: name}
}

// Name returns the name of the network.
func (n *ExtNetwork) Name() string {
	return n.name
}

// Outbound returns the transport handle for node-to-network traffic.
func (n *ExtNetwork) Outbound() Transport {
	return Transport{network: n, side: SideOutbound}
}

// Inbound returns the transport handle for network-to-node traffic.
func (n *ExtNetwork) Inbound() Transport {
	return Transport{network: n, side: SideInbound}
}

// RecordBinding adds one endpoint attachment of the named owner to the
// network roster.
func (n *ExtNetwork) RecordBinding(owner sim.Named, role string, side Side) {
	n.bindings = append(n.bindings, Binding{
		NodeName: owner.Name(),
		Role:     role,
		Side:     side,
	})
}

// Bindings returns a copy of the attachment roster.
func (n *ExtNetwork) Bindings() []Binding {
	bindings := make([]Binding, len(n.bindings))
	copy(bindings, n.bindings)

	return bindings
}
