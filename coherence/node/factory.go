package node

import "github.com/sarchlab/vihammer/sim"

// Copy engines use a small dummy cache that the controller never exercises.
const (
	copyEngineCacheSize      = 4096
	copyEngineCacheAssoc     = 2
	copyEngineNumTBEs        = 256
	copyEngineMaxOutstanding = 64

	gpuDeadlockThreshold = 2000000
)

// A Factory builds node descriptors with stable version numbering. Versions
// are monotonic per kind; sequencer versions are monotonic across all
// sequencer-bearing nodes. The protocol runtime uses both as logical
// identity, so the numbering never changes for nodes already built.
type Factory struct {
	nextSequencerVersion int
	nextVersion          map[Kind]int
}

// NewFactory creates a factory with all version counters at zero.
func NewFactory() *Factory {
	return &Factory{
		nextVersion: make(map[Kind]int),
	}
}

// SeedSequencerVersions sets the next sequencer version to hand out. Used
// when sequencers built elsewhere already occupy the lower versions.
func (f *Factory) SeedSequencerVersions(next int) {
	f.nextSequencerVersion = next
}

// SeedDirectoryVersions sets the next directory version to hand out, so that
// device directories continue after the existing CPU-side ones.
func (f *Factory) SeedDirectoryVersions(next int) {
	f.nextVersion[KindDirectory] = next
}

// BuildSequencer builds a stand-alone sequencer, used for cores whose cache
// controllers are built outside this module.
func (f *Factory) BuildSequencer(
	parent, elem string,
	index int,
	maxOutstanding int,
) *Sequencer {
	name := sim.BuildNameWithIndex(parent, elem, index)
	sim.NameMustBeValid(name)

	return &Sequencer{
		name:            name,
		version:         f.takeSequencerVersion(),
		maxOutstanding:  maxOutstanding,
		supportInstReqs: true,
	}
}

// BuildL1Node builds one GPU L1 cache controller with its sequencer.
func (f *Factory) BuildL1Node(
	parent string,
	index int,
	params L1Params,
) *Node {
	name := sim.BuildNameWithIndex(parent, "L1Cntrl", index)
	n := newNode(name, KindL1, f.takeVersion(KindL1))
	n.l1 = &params

	n.sequencer = &Sequencer{
		name:              sim.BuildName(name, "Sequencer"),
		version:           f.takeSequencerVersion(),
		maxOutstanding:    params.NumTBEs,
		deadlockThreshold: gpuDeadlockThreshold,
		supportInstReqs:   true,
	}

	return n
}

// BuildL2Node builds one GPU L2 cache controller.
func (f *Factory) BuildL2Node(
	parent string,
	index int,
	params L2Params,
) *Node {
	name := sim.BuildNameWithIndex(parent, "L2Cntrl", index)
	n := newNode(name, KindL2, f.takeVersion(KindL2))
	n.l2 = &params

	return n
}

// BuildDirectoryNode builds one directory controller.
func (f *Factory) BuildDirectoryNode(
	parent string,
	index int,
	params DirectoryParams,
) *Node {
	elem := "DirCntrl"
	if params.DeviceDirectory {
		elem = "DevDirCntrl"
	}

	if params.MemBankQueueSize == 0 {
		params.MemBankQueueSize = 24
	}

	if params.MapLevels == 0 {
		params.MapLevels = 4
	}

	name := sim.BuildNameWithIndex(parent, elem, index)
	n := newNode(name, KindDirectory, f.takeVersion(KindDirectory))
	n.directory = &params

	return n
}

// BuildCopyEngineNode builds one copy-engine controller with its sequencer.
func (f *Factory) BuildCopyEngineNode(
	parent, elem string,
	supportsInstReqs bool,
) *Node {
	name := sim.BuildName(parent, elem)
	sim.NameMustBeValid(name)

	n := newNode(name, KindCopyEngine, f.takeVersion(KindCopyEngine))
	n.copyEngine = &CopyEngineParams{
		Cache: CacheParams{
			Size:    copyEngineCacheSize,
			Assoc:   copyEngineCacheAssoc,
			Latency: 1,
		},
		NumTBEs: copyEngineNumTBEs,
	}

	n.sequencer = &Sequencer{
		name:            sim.BuildName(name, "Sequencer"),
		version:         f.takeSequencerVersion(),
		maxOutstanding:  copyEngineMaxOutstanding,
		supportInstReqs: supportsInstReqs,
	}

	return n
}

// BuildDMANode builds one DMA controller.
func (f *Factory) BuildDMANode(parent string, index int) *Node {
	name := sim.BuildNameWithIndex(parent, "DMACntrl", index)

	return newNode(name, KindDMA, f.takeVersion(KindDMA))
}

func (f *Factory) takeVersion(kind Kind) int {
	v := f.nextVersion[kind]
	f.nextVersion[kind] = v + 1

	return v
}

func (f *Factory) takeSequencerVersion() int {
	v := f.nextSequencerVersion
	f.nextSequencerVersion++

	return v
}
