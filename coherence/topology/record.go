package topology

import (
	"github.com/sarchlab/vihammer/coherence/cluster"
	"github.com/sarchlab/vihammer/datarecording"
)

type nodeRow struct {
	Name    string
	Kind    string
	Version int
	Cluster string
}

type sequencerRow struct {
	Name              string
	Version           int
	MaxOutstanding    int
	DeadlockThreshold int
	SupportsInstReqs  bool
}

type clusterRow struct {
	Name              string
	Parent            string
	InternalBandwidth int
	ExternalBandwidth int
}

// A Recorder flattens a finished topology into tables for later inspection.
type Recorder struct {
	rec datarecording.DataRecorder
}

// NewRecorder creates a recorder that writes through rec.
func NewRecorder(rec datarecording.DataRecorder) *Recorder {
	return &Recorder{rec: rec}
}

// Record writes the node, sequencer, and cluster inventory of t.
func (r *Recorder) Record(t *Topology) {
	r.rec.CreateTable("topology_nodes", nodeRow{})
	r.rec.CreateTable("topology_sequencers", sequencerRow{})
	r.rec.CreateTable("topology_clusters", clusterRow{})

	r.recordCluster(t.Root, "")

	for _, seq := range t.Sequencers {
		r.rec.InsertData("topology_sequencers", sequencerRow{
			Name:              seq.Name(),
			Version:           seq.Version(),
			MaxOutstanding:    seq.MaxOutstanding(),
			DeadlockThreshold: seq.DeadlockThreshold(),
			SupportsInstReqs:  seq.SupportsInstReqs(),
		})
	}

	r.rec.Flush()
}

func (r *Recorder) recordCluster(c *cluster.Cluster, parent string) {
	r.rec.InsertData("topology_clusters", clusterRow{
		Name:              c.Name(),
		Parent:            parent,
		InternalBandwidth: c.InternalBandwidth(),
		ExternalBandwidth: c.ExternalBandwidth(),
	})

	for _, n := range c.Nodes() {
		r.rec.InsertData("topology_nodes", nodeRow{
			Name:    n.Name(),
			Kind:    n.Kind().String(),
			Version: n.Version(),
			Cluster: c.Name(),
		})
	}

	for _, sub := range c.Clusters() {
		r.recordCluster(sub, c.Name())
	}
}
