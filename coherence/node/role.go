package node

import "github.com/sarchlab/vihammer/noc/extnetwork"

// A Role is one named network endpoint that a node kind must bind before the
// node is usable. Traffic leaving the node uses the outbound side; traffic
// arriving at the node uses the inbound side.
type Role struct {
	Name string
	Side extnetwork.Side
}

var l1Roles = []Role{
	{Name: "RequestFromL1Cache", Side: extnetwork.SideOutbound},
	{Name: "ResponseToL1Cache", Side: extnetwork.SideInbound},
}

var l2Roles = []Role{
	{Name: "ResponseToL1Cache", Side: extnetwork.SideOutbound},
	{Name: "RequestFromCache", Side: extnetwork.SideOutbound},
	{Name: "ResponseFromCache", Side: extnetwork.SideOutbound},
	{Name: "UnblockFromCache", Side: extnetwork.SideOutbound},
	{Name: "RequestFromL1Cache", Side: extnetwork.SideInbound},
	{Name: "ForwardToCache", Side: extnetwork.SideInbound},
	{Name: "ResponseToCache", Side: extnetwork.SideInbound},
}

var directoryRoles = []Role{
	{Name: "ForwardFromDir", Side: extnetwork.SideOutbound},
	{Name: "ResponseFromDir", Side: extnetwork.SideOutbound},
	{Name: "DMAResponseFromDir", Side: extnetwork.SideOutbound},
	{Name: "UnblockToDir", Side: extnetwork.SideInbound},
	{Name: "ResponseToDir", Side: extnetwork.SideInbound},
	{Name: "RequestToDir", Side: extnetwork.SideInbound},
	{Name: "DMARequestToDir", Side: extnetwork.SideInbound},
}

var copyEngineRoles = []Role{
	{Name: "RequestToDirectory", Side: extnetwork.SideOutbound},
	{Name: "ResponseFromDir", Side: extnetwork.SideInbound},
}

var dmaRoles = []Role{
	{Name: "RequestToDir", Side: extnetwork.SideOutbound},
	{Name: "ResponseFromDir", Side: extnetwork.SideInbound},
}

// RolesFor returns the endpoint roles a node kind declares.
func RolesFor(kind Kind) []Role {
	var roles []Role

	switch kind {
	case KindL1:
		roles = l1Roles
	case KindL2:
		roles = l2Roles
	case KindDirectory:
		roles = directoryRoles
	case KindCopyEngine:
		roles = copyEngineRoles
	case KindDMA:
		roles = dmaRoles
	default:
		panic("unknown node kind")
	}

	out := make([]Role, len(roles))
	copy(out, roles)

	return out
}
