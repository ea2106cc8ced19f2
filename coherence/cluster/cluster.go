// Package cluster arranges node descriptors into the named, bandwidth-rated
// groupings that organize the network topology.
package cluster

import (
	"log"

	"github.com/sarchlab/vihammer/coherence/node"
	"github.com/sarchlab/vihammer/sim"
)

// A Cluster is a named grouping of nodes and nested clusters. Clusters form a
// strict tree: a node or sub-cluster belongs to exactly one parent.
type Cluster struct {
	name  string
	intBW int
	extBW int

	nodes    []*node.Node
	clusters []*Cluster

	hasParent bool
	frozen    bool
}

// New creates a cluster with the given internal and external bandwidth.
func New(name string, intBW, extBW int) *Cluster {
	sim.NameMustBeValid(name)

	return &Cluster{
		name:  name,
		intBW: intBW,
		extBW: extBW,
	}
}

// Name returns the name of the cluster.
func (c *Cluster) Name() string {
	return c.name
}

// InternalBandwidth returns the declared bandwidth inside the cluster.
func (c *Cluster) InternalBandwidth() int {
	return c.intBW
}

// ExternalBandwidth returns the declared bandwidth out of the cluster.
func (c *Cluster) ExternalBandwidth() int {
	return c.extBW
}

// AddNode adds a node as a direct child. The node must not already belong to
// another cluster.
func (c *Cluster) AddNode(n *node.Node) {
	c.mustBeMutable()

	n.AttachToCluster(c.name)
	c.nodes = append(c.nodes, n)
}

// AddCluster nests a sub-cluster. The sub-cluster must not already have a
// parent.
func (c *Cluster) AddCluster(sub *Cluster) {
	c.mustBeMutable()

	if sub.hasParent {
		log.Panicf("cluster %s already has a parent", sub.name)
	}

	sub.hasParent = true
	c.clusters = append(c.clusters, sub)
}

// Nodes returns the direct child nodes.
func (c *Cluster) Nodes() []*node.Node {
	nodes := make([]*node.Node, len(c.nodes))
	copy(nodes, c.nodes)

	return nodes
}

// Clusters returns the direct sub-clusters.
func (c *Cluster) Clusters() []*Cluster {
	clusters := make([]*Cluster, len(c.clusters))
	copy(clusters, c.clusters)

	return clusters
}

// AllNodes returns every node in the subtree, parents before children.
func (c *Cluster) AllNodes() []*node.Node {
	all := make([]*node.Node, 0, len(c.nodes))
	all = append(all, c.nodes...)

	for _, sub := range c.clusters {
		all = append(all, sub.AllNodes()...)
	}

	return all
}

// Freeze makes the subtree immutable. The assembler freezes the root once the
// topology is complete; any later structural mutation is a programming error.
func (c *Cluster) Freeze() {
	c.frozen = true

	for _, sub := range c.clusters {
		sub.Freeze()
	}
}

// Frozen tells whether the cluster is immutable.
func (c *Cluster) Frozen() bool {
	return c.frozen
}

func (c *Cluster) mustBeMutable() {
	if c.frozen {
		log.Panicf("cluster %s is frozen", c.name)
	}
}
