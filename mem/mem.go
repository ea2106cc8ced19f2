// Package mem provides memory capacity units and the address-interleaving
// helper that maps physical addresses onto directory nodes.
package mem

// Capacity units in bytes.
const (
	KB uint64 = 1 << 10
	MB uint64 = 1 << 20
	GB uint64 = 1 << 30
)
