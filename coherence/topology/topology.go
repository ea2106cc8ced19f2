// Package topology assembles the heterogeneous CPU/GPU coherence topology:
// it extends a pre-built CPU-side fragment with the GPU cache hierarchy,
// provisions device directories, wires every node to the network rendezvous,
// and returns the frozen cluster tree.
package topology

import (
	"github.com/sarchlab/vihammer/coherence/cluster"
	"github.com/sarchlab/vihammer/coherence/layout"
	"github.com/sarchlab/vihammer/coherence/node"
	"github.com/sarchlab/vihammer/mem"
)

// Base is the CPU-side topology fragment that the assembler extends. It
// arrives pre-built from the CPU protocol configurator: sequencers for the
// CPU cores, the CPU-side directories, the DMA engines, and the CPU cluster.
type Base struct {
	Sequencers  []*node.Sequencer
	Directories []*node.Node
	DMAEngines  []*node.Node
	CPUCluster  *cluster.Cluster
}

// Topology is the finished artifact the protocol runtime consumes. It is
// immutable once returned; adding nodes requires a rebuild.
type Topology struct {
	ID string

	// Sequencers in version order. Position in the slice is the logical
	// core identity.
	Sequencers []*node.Sequencer

	// Directories holds the CPU-side directories followed by any device
	// directories, addressable by version.
	Directories []*node.Node

	Root   *cluster.Cluster
	Layout layout.Layout

	// DirectorySelector maps block addresses onto directory versions.
	DirectorySelector *mem.DirectorySelector

	dirByVersion map[int]*node.Node
}

// DirectoryByVersion returns the directory node with the given version, or
// nil if no such directory exists.
func (t *Topology) DirectoryByVersion(version int) *node.Node {
	return t.dirByVersion[version]
}
