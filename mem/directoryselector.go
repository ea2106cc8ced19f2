package mem

// A DirectorySelector finds the directory that serializes coherence traffic
// for a block address. Directories maintain an interleaved address space at
// block granularity, so the selector and the directory index bits agree on
// which node owns a line.
type DirectorySelector struct {
	InterleavingSize uint64
	Versions         []int
}

// NewDirectorySelector creates a selector over the given directory versions,
// interleaved at interleavingSize bytes.
func NewDirectorySelector(
	interleavingSize uint64,
	versions ...int,
) *DirectorySelector {
	if interleavingSize == 0 {
		panic("interleaving size must not be zero")
	}

	if len(versions) == 0 {
		panic("a directory selector needs at least one directory")
	}

	s := &DirectorySelector{
		InterleavingSize: interleavingSize,
	}
	s.Versions = append(s.Versions, versions...)

	return s
}

// Find returns the version of the directory that owns the address.
func (s *DirectorySelector) Find(address uint64) int {
	number := address / s.InterleavingSize % uint64(len(s.Versions))

	return s.Versions[number]
}
