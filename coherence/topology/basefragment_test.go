package topology_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vihammer/coherence"
	"github.com/sarchlab/vihammer/coherence/topology"
	"github.com/sarchlab/vihammer/mem"
	"github.com/sarchlab/vihammer/noc/extnetwork"
)

var _ = Describe("BaseBuilder", func() {
	var (
		cfg     coherence.Config
		network *extnetwork.ExtNetwork
	)

	BeforeEach(func() {
		cfg = makeConfig()
		network = extnetwork.New("ExtNet")
	})

	It("should build one sequencer per CPU, versioned from zero", func() {
		base, err := topology.MakeBaseBuilder().
			WithConfig(cfg).
			WithNetwork(network).
			Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(base.Sequencers).To(HaveLen(cfg.NumCPUs))
		for i, seq := range base.Sequencers {
			Expect(seq.Version()).To(Equal(i))
			Expect(seq.Name()).To(HavePrefix("CPU.Sequencer"))
		}
	})

	It("should spread CPU memory evenly over the directories", func() {
		base, err := topology.MakeBaseBuilder().
			WithConfig(cfg).
			WithNetwork(network).
			Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(base.Directories).To(HaveLen(cfg.NumCPUDirs))
		for _, dir := range base.Directories {
			Expect(dir.Directory().Capacity).To(Equal(128 * mem.MB))
			Expect(dir.Complete()).To(BeTrue())
		}
	})

	It("should leave the CPU cluster empty for the host protocol", func() {
		base, err := topology.MakeBaseBuilder().
			WithConfig(cfg).
			WithNetwork(network).
			Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(base.CPUCluster.Name()).To(Equal("CPU"))
		Expect(base.CPUCluster.Nodes()).To(BeEmpty())
	})

	It("should reject CPU memory that does not divide evenly", func() {
		cfg.CPUPhysMemSize = 256*mem.MB + 1

		_, err := topology.MakeBaseBuilder().
			WithConfig(cfg).
			WithNetwork(network).
			Build()

		Expect(err).To(HaveOccurred())
	})
})
