// Package node defines the typed node descriptors that make up the coherence
// topology, and the factory that stamps out descriptors with stable version
// numbering.
package node

import (
	"log"

	"github.com/sarchlab/vihammer/coherence"
	"github.com/sarchlab/vihammer/noc/extnetwork"
	"github.com/sarchlab/vihammer/sim"
)

// Kind tells what a node descriptor describes.
type Kind int

// The node kinds that appear in the topology.
const (
	KindL1 Kind = iota
	KindL2
	KindDirectory
	KindCopyEngine
	KindDMA
)

func (k Kind) String() string {
	switch k {
	case KindL1:
		return "L1"
	case KindL2:
		return "L2"
	case KindDirectory:
		return "Directory"
	case KindCopyEngine:
		return "CopyEngine"
	case KindDMA:
		return "DMA"
	default:
		return "Unknown"
	}
}

// CacheParams describe one cache array attached to a controller.
type CacheParams struct {
	Size              uint64
	Assoc             int
	Latency           int
	StartIndexBit     int
	ReplacementPolicy string
	DataArrayBanks    int
	TagArrayBanks     int
	DataAccessLatency int
	TagAccessLatency  int
	ResourceStalls    bool
}

// L1Params carry the sizing of a GPU L1 cache controller.
type L1Params struct {
	Cache        CacheParams
	L2SelectBits int
	NumL2        int
	IssueLatency int
	NumTBEs      int
}

// L2Params carry the sizing of a GPU L2 cache controller.
type L2Params struct {
	Cache           CacheParams
	ResponseLatency int
	RequestLatency  int
}

// DirectoryParams carry the sizing of a directory controller. Capacity is the
// only field the build mutates after creation, and only when device memory is
// folded into CPU directories.
type DirectoryParams struct {
	Capacity           uint64
	ProbeFilter        CacheParams
	ProbeFilterEnabled bool
	FullBitDirEnabled  bool
	NumaHighBit        int
	RecycleLatency     int
	UseMap             bool
	MapLevels          int
	DeviceDirectory    bool
	MemBankQueueSize   int
}

// CopyEngineParams carry the sizing of a copy-engine controller.
type CopyEngineParams struct {
	Cache   CacheParams
	NumTBEs int
}

// A Sequencer is the per-core front end that issues coherence requests. Its
// version is its logical identity to the protocol runtime.
type Sequencer struct {
	name              string
	version           int
	maxOutstanding    int
	deadlockThreshold int
	supportInstReqs   bool
}

// Name returns the name of the sequencer.
func (s *Sequencer) Name() string {
	return s.name
}

// Version returns the logical identity of the sequencer.
func (s *Sequencer) Version() int {
	return s.version
}

// MaxOutstanding returns how many requests the sequencer keeps in flight.
func (s *Sequencer) MaxOutstanding() int {
	return s.maxOutstanding
}

// DeadlockThreshold returns the cycle count after which a stuck request is
// reported. Zero means the runtime default.
func (s *Sequencer) DeadlockThreshold() int {
	return s.deadlockThreshold
}

// SupportsInstReqs tells whether the sequencer serves instruction fetches.
func (s *Sequencer) SupportsInstReqs() bool {
	return s.supportInstReqs
}

// A Node is one typed controller descriptor in the topology.
type Node struct {
	name    string
	kind    Kind
	version int

	declaredRoles []Role
	bindings      map[string]extnetwork.Transport

	owner string

	l1         *L1Params
	l2         *L2Params
	directory  *DirectoryParams
	copyEngine *CopyEngineParams
	sequencer  *Sequencer
}

// Name returns the name of the node.
func (n *Node) Name() string {
	return n.name
}

// Kind returns the kind of the node.
func (n *Node) Kind() Kind {
	return n.kind
}

// Version returns the identity of the node within its kind.
func (n *Node) Version() int {
	return n.version
}

// Sequencer returns the attached sequencer, or nil for nodes that do not
// carry one.
func (n *Node) Sequencer() *Sequencer {
	return n.sequencer
}

// L1 returns the L1 parameters of an L1 node.
func (n *Node) L1() *L1Params {
	return n.l1
}

// L2 returns the L2 parameters of an L2 node.
func (n *Node) L2() *L2Params {
	return n.l2
}

// Directory returns the directory parameters of a directory node.
func (n *Node) Directory() *DirectoryParams {
	return n.directory
}

// CopyEngine returns the copy-engine parameters of a copy-engine node.
func (n *Node) CopyEngine() *CopyEngineParams {
	return n.copyEngine
}

// Roles returns the endpoint roles the node declares.
func (n *Node) Roles() []Role {
	roles := make([]Role, len(n.declaredRoles))
	copy(roles, n.declaredRoles)

	return roles
}

// Bind attaches one endpoint role to a transport. Binding the same transport
// again is a no-op; binding a different transport returns a RebindError and
// leaves the first binding intact.
func (n *Node) Bind(role Role, t extnetwork.Transport) error {
	if !n.declares(role.Name) {
		log.Panicf("role %s is not declared on node %s", role.Name, n.name)
	}

	if t.IsZero() {
		log.Panicf("binding role %s on node %s to a zero transport",
			role.Name, n.name)
	}

	if bound, ok := n.bindings[role.Name]; ok {
		if bound == t {
			return nil
		}

		return &coherence.RebindError{Node: n.name, Role: role.Name}
	}

	n.bindings[role.Name] = t
	t.Network().RecordBinding(n, role.Name, t.Side())

	return nil
}

// BoundTransport returns the transport a role is bound to.
func (n *Node) BoundTransport(roleName string) (extnetwork.Transport, bool) {
	t, ok := n.bindings[roleName]
	return t, ok
}

// Complete tells whether every declared role is bound. Incomplete nodes must
// not be handed to the protocol runtime.
func (n *Node) Complete() bool {
	for _, role := range n.declaredRoles {
		if _, ok := n.bindings[role.Name]; !ok {
			return false
		}
	}

	return true
}

// AttachToCluster marks the node as owned by a cluster. A node belongs to at
// most one cluster; the topology is a tree, not a graph.
func (n *Node) AttachToCluster(clusterName string) {
	if n.owner != "" {
		log.Panicf("node %s already belongs to cluster %s",
			n.name, n.owner)
	}

	n.owner = clusterName
}

// OwnerCluster returns the name of the owning cluster, or an empty string.
func (n *Node) OwnerCluster() string {
	return n.owner
}

func (n *Node) declares(roleName string) bool {
	for _, role := range n.declaredRoles {
		if role.Name == roleName {
			return true
		}
	}

	return false
}

func newNode(name string, kind Kind, version int) *Node {
	sim.NameMustBeValid(name)

	return &Node{
		name:          name,
		kind:          kind,
		version:       version,
		declaredRoles: RolesFor(kind),
		bindings:      make(map[string]extnetwork.Transport),
	}
}
