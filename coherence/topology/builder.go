package topology

import (
	"github.com/sarchlab/vihammer/coherence"
	"github.com/sarchlab/vihammer/coherence/cluster"
	"github.com/sarchlab/vihammer/coherence/layout"
	"github.com/sarchlab/vihammer/coherence/node"
	"github.com/sarchlab/vihammer/mem"
	"github.com/sarchlab/vihammer/noc/extnetwork"
	"github.com/sarchlab/vihammer/sim"
)

const clusterBandwidth = 32

// A Builder assembles the full topology from a configuration, a CPU-side
// base fragment, and the network rendezvous. The build is a single pass:
// the first violated invariant aborts it and no partial topology escapes.
type Builder struct {
	cfg     coherence.Config
	base    *Base
	network *extnetwork.ExtNetwork
}

// MakeBuilder creates a builder with default parameter setting.
func MakeBuilder() Builder {
	return Builder{}
}

// WithConfig sets the configuration to build from.
func (b Builder) WithConfig(cfg coherence.Config) Builder {
	b.cfg = cfg
	return b
}

// WithBase sets the CPU-side fragment to extend.
func (b Builder) WithBase(base *Base) Builder {
	b.base = base
	return b
}

// WithNetwork sets the network rendezvous that every node binds to.
func (b Builder) WithNetwork(network *extnetwork.ExtNetwork) Builder {
	b.network = network
	return b
}

// Build assembles the topology.
func (b Builder) Build() (*Topology, error) {
	b.assertAllRequiredInformationIsAvailable()

	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	if err := b.validateBase(); err != nil {
		return nil, err
	}

	alloc := coherence.Allocator{}
	pfCapacity := alloc.ProbeFilterCapacity(b.cfg.L2Size, b.cfg.ProbeFilterSize)

	lay, err := layout.Plan(layout.Spec{
		CachelineSize:       b.cfg.CachelineSize,
		NumL2Caches:         b.cfg.NumL2Caches,
		NumDeviceDirs:       b.cfg.NumDeviceDirs,
		ProbeFilterCapacity: pfCapacity,
		NumaHighBit:         b.cfg.NumaHighBit,
		ProbeFilterEnabled:  b.cfg.ProbeFilterEnabled,
		FullBitDirEnabled:   b.cfg.FullBitDirEnabled,
	})
	if err != nil {
		return nil, err
	}

	plan, err := planProvisioning(b.cfg, len(b.base.Directories), pfCapacity)
	if err != nil {
		return nil, err
	}

	factory := node.NewFactory()
	factory.SeedSequencerVersions(len(b.base.Sequencers))
	factory.SeedDirectoryVersions(maxDirectoryVersion(b.base.Directories) + 1)

	latency := node.MakeLatencyModel(b.cfg.NumStreamingCores)

	gpuCluster := cluster.New("GPU", clusterBandwidth, clusterBandwidth)
	gpuSequencers := make([]*node.Sequencer, 0, b.cfg.NumStreamingCores)

	for i := 0; i < b.cfg.NumStreamingCores; i++ {
		l1 := factory.BuildL1Node("GPU", i, b.l1Params(lay, latency))

		if err := bindAll(l1, b.network); err != nil {
			return nil, err
		}

		gpuCluster.AddNode(l1)
		gpuSequencers = append(gpuSequencers, l1.Sequencer())
	}

	for i := 0; i < b.cfg.NumL2Caches; i++ {
		l2 := factory.BuildL2Node("GPU", i, b.l2Params(lay, latency))

		if err := bindAll(l2, b.network); err != nil {
			return nil, err
		}

		l2Cluster := cluster.New(
			sim.BuildNameWithIndex("GPU", "L2Cluster", i),
			clusterBandwidth, clusterBandwidth)
		l2Cluster.AddNode(l2)
		gpuCluster.AddCluster(l2Cluster)
	}

	capacityBefore := directoryCapacitySum(b.base.Directories)

	directories := make([]*node.Node, 0, len(b.base.Directories))
	directories = append(directories, b.base.Directories...)

	ctx := &buildContext{
		cfg:             b.cfg,
		factory:         factory,
		network:         b.network,
		layout:          lay,
		baseDirectories: b.base.Directories,
	}

	deviceDirs, err := plan.apply(ctx)
	if err != nil {
		return nil, err
	}

	directories = append(directories, deviceDirs...)

	capacityAfter := directoryCapacitySum(directories)
	if capacityAfter != capacityBefore+b.cfg.DevicePhysMemSize {
		return nil, &coherence.CapacityError{
			TotalBytes: b.cfg.DevicePhysMemSize,
			NodeCount:  len(directories),
		}
	}

	cpuCE := factory.BuildCopyEngineNode("", "CPUCopyEngine", true)
	if err := bindAll(cpuCE, b.network); err != nil {
		return nil, err
	}

	gpuCE := factory.BuildCopyEngineNode("", "GPUCopyEngine", false)
	if err := bindAll(gpuCE, b.network); err != nil {
		return nil, err
	}

	sequencers := make([]*node.Sequencer, 0,
		len(b.base.Sequencers)+len(gpuSequencers)+2)
	sequencers = append(sequencers, b.base.Sequencers...)
	sequencers = append(sequencers, gpuSequencers...)
	sequencers = append(sequencers, cpuCE.Sequencer(), gpuCE.Sequencer())

	root := b.assembleClusters(cpuCE, gpuCE, gpuCluster, directories)

	if err := allNodesMustBeComplete(root); err != nil {
		return nil, err
	}

	root.Freeze()

	return b.finishTopology(sequencers, directories, root, lay), nil
}

func (b Builder) assembleClusters(
	cpuCE, gpuCE *node.Node,
	gpuCluster *cluster.Cluster,
	directories []*node.Node,
) *cluster.Cluster {
	root := cluster.New("Platform", clusterBandwidth, clusterBandwidth)
	root.AddNode(cpuCE)
	root.AddNode(gpuCE)
	root.AddCluster(b.base.CPUCluster)
	root.AddCluster(gpuCluster)

	dirCluster := cluster.New("DirectorySet",
		clusterBandwidth, clusterBandwidth)
	for _, dir := range directories {
		dirCluster.AddNode(dir)
	}
	root.AddCluster(dirCluster)

	dmaCluster := cluster.New("DMASet", clusterBandwidth, clusterBandwidth)
	for _, dma := range b.base.DMAEngines {
		dmaCluster.AddNode(dma)
	}
	root.AddCluster(dmaCluster)

	return root
}

func (b Builder) finishTopology(
	sequencers []*node.Sequencer,
	directories []*node.Node,
	root *cluster.Cluster,
	lay layout.Layout,
) *Topology {
	versions := make([]int, 0, len(directories))
	dirByVersion := make(map[int]*node.Node, len(directories))

	for _, dir := range directories {
		versions = append(versions, dir.Version())
		dirByVersion[dir.Version()] = dir
	}

	return &Topology{
		ID:          sim.GetIDGenerator().Generate(),
		Sequencers:  sequencers,
		Directories: directories,
		Root:        root,
		Layout:      lay,
		DirectorySelector: mem.NewDirectorySelector(
			b.cfg.CachelineSize, versions...),
		dirByVersion: dirByVersion,
	}
}

func (b Builder) l1Params(
	lay layout.Layout,
	latency node.LatencyModel,
) node.L1Params {
	return node.L1Params{
		Cache: node.CacheParams{
			Size:              b.cfg.L1Size,
			Assoc:             b.cfg.L1Assoc,
			Latency:           1,
			StartIndexBit:     lay.BlockOffsetBits,
			ReplacementPolicy: "LRU",
			DataArrayBanks:    4,
			TagArrayBanks:     4,
			DataAccessLatency: 4,
			TagAccessLatency:  4,
		},
		L2SelectBits: lay.L2IndexBits,
		NumL2:        b.cfg.NumL2Caches,
		IssueLatency: latency.L1ToL2Latency(),
		NumTBEs:      b.cfg.GPUL1BufDepth,
	}
}

func (b Builder) l2Params(
	lay layout.Layout,
	latency node.LatencyModel,
) node.L2Params {
	return node.L2Params{
		Cache: node.CacheParams{
			Size:              b.cfg.L2Size,
			Assoc:             b.cfg.L2Assoc,
			Latency:           15,
			StartIndexBit:     lay.L2CombinedIndexStart,
			ReplacementPolicy: "LRU",
			DataArrayBanks:    4,
			TagArrayBanks:     4,
			DataAccessLatency: 4,
			TagAccessLatency:  4,
			ResourceStalls:    b.cfg.L2ResourceStalls,
		},
		ResponseLatency: latency.L2ResponseLatency(),
		RequestLatency:  latency.L2RequestLatency(),
	}
}

func (b Builder) validateBase() error {
	if len(b.base.Sequencers) != b.cfg.NumCPUs {
		return &coherence.ConfigurationError{
			Field:  "Base.Sequencers",
			Reason: "base fragment must carry one sequencer per CPU core",
		}
	}

	for i, seq := range b.base.Sequencers {
		if seq.Version() != i {
			return &coherence.ConfigurationError{
				Field:  "Base.Sequencers",
				Reason: "base sequencer versions must be contiguous from zero",
			}
		}
	}

	if len(b.base.Directories) != b.cfg.NumCPUDirs {
		return &coherence.ConfigurationError{
			Field:  "Base.Directories",
			Reason: "base fragment must carry the configured directory count",
		}
	}

	if len(b.base.DMAEngines) != b.cfg.NumDMAs {
		return &coherence.ConfigurationError{
			Field:  "Base.DMAEngines",
			Reason: "base fragment must carry the configured DMA count",
		}
	}

	return nil
}

func (b Builder) assertAllRequiredInformationIsAvailable() {
	if b.base == nil {
		panic("base topology fragment is not specified")
	}

	if b.base.CPUCluster == nil {
		panic("base topology fragment carries no CPU cluster")
	}

	if b.network == nil {
		panic("network is not specified")
	}
}

func bindAll(n *node.Node, network *extnetwork.ExtNetwork) error {
	for _, role := range n.Roles() {
		t := network.Outbound()
		if role.Side == extnetwork.SideInbound {
			t = network.Inbound()
		}

		if err := n.Bind(role, t); err != nil {
			return err
		}
	}

	return nil
}

func allNodesMustBeComplete(root *cluster.Cluster) error {
	for _, n := range root.AllNodes() {
		if !n.Complete() {
			return &coherence.ConfigurationError{
				Field:  "Base",
				Reason: "node " + n.Name() + " has unbound endpoint roles",
			}
		}
	}

	return nil
}

func maxDirectoryVersion(dirs []*node.Node) int {
	max := -1
	for _, dir := range dirs {
		if dir.Version() > max {
			max = dir.Version()
		}
	}

	return max
}

func directoryCapacitySum(dirs []*node.Node) uint64 {
	sum := uint64(0)
	for _, dir := range dirs {
		sum += dir.Directory().Capacity
	}

	return sum
}
