// The vihammer command builds the heterogeneous CPU/GPU coherence topology
// from command-line options and optionally records or serves the result.
package main

func main() {
	Execute()
}
