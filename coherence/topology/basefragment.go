package topology

import (
	"github.com/sarchlab/vihammer/coherence"
	"github.com/sarchlab/vihammer/coherence/cluster"
	"github.com/sarchlab/vihammer/coherence/node"
	"github.com/sarchlab/vihammer/noc/extnetwork"
)

const cpuSequencerMaxOutstanding = 16

// A BaseBuilder builds a minimal CPU-side fragment: sequencers for the CPU
// cores, evenly sized CPU directories, DMA engines, and the CPU cluster. The
// production flow receives this fragment from the CPU protocol configurator;
// this builder provides the same shape for stand-alone runs and tests.
type BaseBuilder struct {
	cfg     coherence.Config
	network *extnetwork.ExtNetwork
}

// MakeBaseBuilder creates a base-fragment builder.
func MakeBaseBuilder() BaseBuilder {
	return BaseBuilder{}
}

// WithConfig sets the configuration to build from.
func (b BaseBuilder) WithConfig(cfg coherence.Config) BaseBuilder {
	b.cfg = cfg
	return b
}

// WithNetwork sets the network rendezvous the base nodes bind to.
func (b BaseBuilder) WithNetwork(network *extnetwork.ExtNetwork) BaseBuilder {
	b.network = network
	return b
}

// Build builds the fragment.
func (b BaseBuilder) Build() (*Base, error) {
	if b.network == nil {
		panic("network is not specified")
	}

	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	alloc := coherence.Allocator{}
	perDir, err := alloc.PerNodeCapacity(
		b.cfg.CPUPhysMemSize, b.cfg.NumCPUDirs)
	if err != nil {
		return nil, err
	}

	factory := node.NewFactory()

	sequencers := make([]*node.Sequencer, 0, b.cfg.NumCPUs)
	for i := 0; i < b.cfg.NumCPUs; i++ {
		sequencers = append(sequencers, factory.BuildSequencer(
			"CPU", "Sequencer", i, cpuSequencerMaxOutstanding))
	}

	directories := make([]*node.Node, 0, b.cfg.NumCPUDirs)
	for i := 0; i < b.cfg.NumCPUDirs; i++ {
		dir := factory.BuildDirectoryNode("", i, node.DirectoryParams{
			Capacity:       perDir,
			NumaHighBit:    b.cfg.NumaHighBit,
			RecycleLatency: b.cfg.RecycleLatency,
			UseMap:         b.cfg.UseMap,
			MapLevels:      b.cfg.MapLevels,
		})

		if err := bindAll(dir, b.network); err != nil {
			return nil, err
		}

		directories = append(directories, dir)
	}

	dmaEngines := make([]*node.Node, 0, b.cfg.NumDMAs)
	for i := 0; i < b.cfg.NumDMAs; i++ {
		dma := factory.BuildDMANode("", i)

		if err := bindAll(dma, b.network); err != nil {
			return nil, err
		}

		dmaEngines = append(dmaEngines, dma)
	}

	// The CPU cache controllers themselves are built by the CPU protocol
	// configurator; the cluster arrives here as their attachment point.
	cpuCluster := cluster.New("CPU", clusterBandwidth, clusterBandwidth)

	return &Base{
		Sequencers:  sequencers,
		Directories: directories,
		DMAEngines:  dmaEngines,
		CPUCluster:  cpuCluster,
	}, nil
}
