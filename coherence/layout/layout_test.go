package layout

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vihammer/coherence"
)

var _ = Describe("Plan", func() {
	var spec Spec

	BeforeEach(func() {
		spec = Spec{
			CachelineSize:       64,
			NumL2Caches:         4,
			NumDeviceDirs:       2,
			ProbeFilterCapacity: 2 * 1024 * 1024,
		}
	})

	It("should place the L2 index right past the block offset", func() {
		l, err := Plan(spec)

		Expect(err).NotTo(HaveOccurred())
		Expect(l.BlockOffsetBits).To(Equal(6))
		Expect(l.L2IndexBits).To(Equal(2))
		Expect(l.L2IndexStartBit).To(Equal(6))
		Expect(l.L2CombinedIndexStart).To(Equal(8))
	})

	It("should overlay the probe filter on the directory interleave when "+
		"no numa high bit is set", func() {
		l, err := Plan(spec)

		Expect(err).NotTo(HaveOccurred())
		Expect(l.DirectoryIndexBits).To(Equal(1))
		Expect(l.ProbeFilterStartBit).To(Equal(6))
	})

	It("should start the probe filter at the block offset with a single "+
		"device directory", func() {
		spec.NumDeviceDirs = 1

		l, err := Plan(spec)

		Expect(err).NotTo(HaveOccurred())
		Expect(l.DirectoryIndexBits).To(Equal(0))
		Expect(l.ProbeFilterStartBit).To(Equal(6))
	})

	It("should start the probe filter at the block offset when a numa "+
		"high bit is set", func() {
		spec.NumaHighBit = 40

		l, err := Plan(spec)

		Expect(err).NotTo(HaveOccurred())
		Expect(l.ProbeFilterStartBit).To(Equal(6))
	})

	It("should fail when the numa high bit collides with the probe filter "+
		"index", func() {
		spec.NumaHighBit = 21
		spec.ProbeFilterEnabled = true

		_, err := Plan(spec)

		var overlapErr *coherence.LayoutOverlapError
		Expect(err).To(BeAssignableToTypeOf(overlapErr))
	})

	It("should tolerate a low numa high bit when neither the probe filter "+
		"nor the full-bit directory is enabled", func() {
		spec.NumaHighBit = 21

		_, err := Plan(spec)

		Expect(err).NotTo(HaveOccurred())
	})

	It("should reject a non-power-of-two cacheline size", func() {
		spec.CachelineSize = 48

		_, err := Plan(spec)

		var confErr *coherence.ConfigurationError
		Expect(err).To(BeAssignableToTypeOf(confErr))
		Expect(err.(*coherence.ConfigurationError).Field).
			To(Equal("CachelineSize"))
	})

	It("should reject a non-power-of-two L2 count", func() {
		spec.NumL2Caches = 3

		_, err := Plan(spec)

		Expect(err).To(HaveOccurred())
	})

	It("should reject a non-power-of-two device directory count", func() {
		spec.NumDeviceDirs = 6

		_, err := Plan(spec)

		Expect(err).To(HaveOccurred())
	})

	It("should skip directory and probe filter fields without device "+
		"directories", func() {
		spec.NumDeviceDirs = 0
		spec.ProbeFilterCapacity = 0

		l, err := Plan(spec)

		Expect(err).NotTo(HaveOccurred())
		Expect(l.DirectoryIndexBits).To(Equal(0))
		Expect(l.ProbeFilterIndexBits).To(Equal(0))
		Expect(l.ProbeFilterStartBit).To(Equal(0))
	})
})
