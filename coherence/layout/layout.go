// Package layout computes the physical-address bit partitioning that the
// caches, probe filters, and directories of the topology must agree on.
package layout

import (
	"math/bits"

	"github.com/sarchlab/vihammer/coherence"
)

// Spec carries the scalars the planner needs.
type Spec struct {
	CachelineSize       uint64
	NumL2Caches         int
	NumDeviceDirs       int
	ProbeFilterCapacity uint64
	NumaHighBit         int
	ProbeFilterEnabled  bool
	FullBitDirEnabled   bool
}

// Layout is the derived, immutable bit-field plan.
type Layout struct {
	BlockOffsetBits int

	L2IndexBits     int
	L2IndexStartBit int

	// L2CombinedIndexStart is the first bit past the L2 selection field,
	// where the L2 cache set index starts.
	L2CombinedIndexStart int

	DirectoryIndexBits   int
	ProbeFilterIndexBits int
	ProbeFilterStartBit  int
}

// Plan computes the bit layout. Counts and capacities that select address
// bits must be exact powers of two.
func Plan(spec Spec) (Layout, error) {
	l := Layout{}

	blockOffsetBits, err := log2Exact(spec.CachelineSize, "CachelineSize")
	if err != nil {
		return Layout{}, err
	}

	l2IndexBits, err := log2Exact(uint64(spec.NumL2Caches), "NumL2Caches")
	if err != nil {
		return Layout{}, err
	}

	l.BlockOffsetBits = blockOffsetBits
	l.L2IndexBits = l2IndexBits
	l.L2IndexStartBit = blockOffsetBits
	l.L2CombinedIndexStart = blockOffsetBits + l2IndexBits

	if spec.NumDeviceDirs == 0 {
		return l, nil
	}

	dirBits, err := log2Exact(uint64(spec.NumDeviceDirs), "NumDeviceDirs")
	if err != nil {
		return Layout{}, err
	}

	pfBits, err := log2Exact(spec.ProbeFilterCapacity, "ProbeFilterCapacity")
	if err != nil {
		return Layout{}, err
	}

	l.DirectoryIndexBits = dirBits
	l.ProbeFilterIndexBits = pfBits

	switch {
	case spec.NumaHighBit > 0:
		if spec.ProbeFilterEnabled || spec.FullBitDirEnabled {
			if spec.NumaHighBit-dirBits <= pfBits {
				return Layout{}, &coherence.LayoutOverlapError{
					NumaHighBit:          spec.NumaHighBit,
					DirectoryIndexBits:   dirBits,
					ProbeFilterIndexBits: pfBits,
				}
			}
		}

		l.ProbeFilterStartBit = blockOffsetBits
	case dirBits > 0:
		l.ProbeFilterStartBit = dirBits + blockOffsetBits - 1
	default:
		l.ProbeFilterStartBit = blockOffsetBits
	}

	return l, nil
}

func log2Exact(value uint64, field string) (int, error) {
	if value == 0 || bits.OnesCount64(value) != 1 {
		return 0, &coherence.ConfigurationError{
			Field:  field,
			Reason: "must be an exact power of two",
		}
	}

	return bits.TrailingZeros64(value), nil
}
