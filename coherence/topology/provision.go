package topology

import (
	"github.com/sarchlab/vihammer/coherence"
	"github.com/sarchlab/vihammer/coherence/layout"
	"github.com/sarchlab/vihammer/coherence/node"
	"github.com/sarchlab/vihammer/noc/extnetwork"
)

// A provisionPlan is the directory provisioning strategy, chosen once per
// build before any node is created. Split mode adds device directories;
// merge mode folds device memory into the CPU-side directories.
type provisionPlan interface {
	apply(ctx *buildContext) ([]*node.Node, error)
}

type buildContext struct {
	cfg             coherence.Config
	factory         *node.Factory
	network         *extnetwork.ExtNetwork
	layout          layout.Layout
	baseDirectories []*node.Node
}

// planProvisioning validates the chosen strategy up front so that a doomed
// build fails before creating a single node.
func planProvisioning(
	cfg coherence.Config,
	numBaseDirs int,
	pfCapacity uint64,
) (provisionPlan, error) {
	alloc := coherence.Allocator{}

	if cfg.NumDeviceDirs > 0 {
		perDir, err := alloc.PerNodeCapacity(
			cfg.DevicePhysMemSize, cfg.NumDeviceDirs)
		if err != nil {
			return nil, err
		}

		return splitPlan{
			numDirs:        cfg.NumDeviceDirs,
			perDirCapacity: perDir,
			pfCapacity:     pfCapacity,
		}, nil
	}

	perDirAddition, err := alloc.PerNodeCapacity(
		cfg.DevicePhysMemSize, numBaseDirs)
	if err != nil {
		return nil, err
	}

	return mergePlan{perDirAddition: perDirAddition}, nil
}

// splitPlan builds independent device directories, each with its own probe
// filter and directory-memory backing.
type splitPlan struct {
	numDirs        int
	perDirCapacity uint64
	pfCapacity     uint64
}

func (p splitPlan) apply(ctx *buildContext) ([]*node.Node, error) {
	dirs := make([]*node.Node, 0, p.numDirs)

	for i := 0; i < p.numDirs; i++ {
		dir := ctx.factory.BuildDirectoryNode("", i, node.DirectoryParams{
			Capacity: p.perDirCapacity,
			ProbeFilter: node.CacheParams{
				Size:          p.pfCapacity,
				Assoc:         4,
				Latency:       1,
				StartIndexBit: ctx.layout.ProbeFilterStartBit,
			},
			ProbeFilterEnabled: ctx.cfg.ProbeFilterEnabled,
			FullBitDirEnabled:  ctx.cfg.FullBitDirEnabled,
			NumaHighBit:        ctx.cfg.NumaHighBit,
			RecycleLatency:     ctx.cfg.RecycleLatency,
			UseMap:             ctx.cfg.UseMap,
			MapLevels:          ctx.cfg.MapLevels,
			DeviceDirectory:    true,
		})

		if err := bindAll(dir, ctx.network); err != nil {
			return nil, err
		}

		dirs = append(dirs, dir)
	}

	return dirs, nil
}

// mergePlan redistributes device memory across the existing CPU-side
// directories. Only their stored capacity changes; no node or endpoint is
// created.
type mergePlan struct {
	perDirAddition uint64
}

func (p mergePlan) apply(ctx *buildContext) ([]*node.Node, error) {
	for _, dir := range ctx.baseDirectories {
		dir.Directory().Capacity += p.perDirAddition
	}

	return nil, nil
}
