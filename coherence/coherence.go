// Package coherence holds the configuration and error taxonomy shared by the
// packages that construct a heterogeneous CPU/GPU directory-coherence
// topology.
package coherence
