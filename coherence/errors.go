package coherence

import "fmt"

// A ConfigurationError reports a malformed or missing configuration scalar.
// The build that encounters one aborts before creating any node.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// A LayoutOverlapError reports that independently indexed structures would
// share physical address bits. A coherence protocol built on such a layout
// corrupts data silently, so the build fails instead.
type LayoutOverlapError struct {
	NumaHighBit          int
	DirectoryIndexBits   int
	ProbeFilterIndexBits int
}

func (e *LayoutOverlapError) Error() string {
	return fmt.Sprintf(
		"address layout overlap: numa high bit %d leaves %d bits above the "+
			"directory interleave, probe filter index needs more than %d",
		e.NumaHighBit,
		e.NumaHighBit-e.DirectoryIndexBits,
		e.ProbeFilterIndexBits,
	)
}

// A CapacityError reports an inexact capacity division. Truncating instead
// would break capacity conservation across directories.
type CapacityError struct {
	TotalBytes uint64
	NodeCount  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf(
		"capacity error: %d bytes do not divide evenly across %d nodes",
		e.TotalBytes, e.NodeCount)
}

// A RebindError reports an attempt to bind an already-bound endpoint role to
// a different transport. The original binding stays intact.
type RebindError struct {
	Node string
	Role string
}

func (e *RebindError) Error() string {
	return fmt.Sprintf(
		"endpoint role %s on node %s is already bound to a different transport",
		e.Role, e.Node)
}
