package node

import "math/bits"

// Latencies below are in ruby (cache) cycles, not streaming-core cycles.
const (
	perHopInterconnectLatency = 45
	l2CacheAccessLatency      = 30
	l2ToMemNoCLatency         = 125
)

// A LatencyModel derives protocol latencies from the shape of the GPU
// interconnect, assuming a dance-hall arrangement between L1s and L2s.
type LatencyModel struct {
	perHopLatency int
	numHops       int
}

// MakeLatencyModel creates the latency model for the given streaming-core
// count.
func MakeLatencyModel(numStreamingCores int) LatencyModel {
	numHops := 0
	if numStreamingCores > 0 {
		numHops = bits.Len(uint(numStreamingCores)) - 1
	}

	if numHops == 0 {
		numHops = 1
	}

	return LatencyModel{
		perHopLatency: perHopInterconnectLatency,
		numHops:       numHops,
	}
}

// L1ToL2Latency is the one-way interconnect latency between an L1 and an L2.
func (m LatencyModel) L1ToL2Latency() int {
	return m.perHopLatency * m.numHops
}

// L2ResponseLatency is the latency an L2 adds before responding to an L1,
// including the cache access itself.
func (m LatencyModel) L2ResponseLatency() int {
	return l2CacheAccessLatency + m.L1ToL2Latency()
}

// L2RequestLatency is the latency an L2 adds before requesting from memory.
func (m LatencyModel) L2RequestLatency() int {
	return l2ToMemNoCLatency
}
