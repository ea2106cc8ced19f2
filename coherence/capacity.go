package coherence

// An Allocator divides memory and cache capacity among topology nodes. All
// divisions must be exact. Inexact division is rejected instead of truncated
// so that the per-directory capacities always sum back to the configured
// totals.
type Allocator struct{}

// PerNodeCapacity divides totalBytes evenly across nodeCount nodes.
func (Allocator) PerNodeCapacity(
	totalBytes uint64,
	nodeCount int,
) (uint64, error) {
	if nodeCount <= 0 {
		return 0, &ConfigurationError{
			Field:  "nodeCount",
			Reason: "capacity must be divided across at least one node",
		}
	}

	if totalBytes%uint64(nodeCount) != 0 {
		return 0, &CapacityError{
			TotalBytes: totalBytes,
			NodeCount:  nodeCount,
		}
	}

	return totalBytes / uint64(nodeCount), nil
}

// ProbeFilterCapacity returns the probe-filter capacity for a directory. The
// default is twice the L2 capacity; a non-zero override wins.
func (Allocator) ProbeFilterCapacity(l2Size, override uint64) uint64 {
	if override != 0 {
		return override
	}

	return 2 * l2Size
}
