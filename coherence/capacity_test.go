package coherence

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Allocator", func() {
	var allocator Allocator

	It("should divide capacity evenly", func() {
		perNode, err := allocator.PerNodeCapacity(1024, 4)

		Expect(err).NotTo(HaveOccurred())
		Expect(perNode).To(Equal(uint64(256)))
	})

	It("should reject inexact division", func() {
		_, err := allocator.PerNodeCapacity(1000, 3)

		var capErr *CapacityError
		Expect(err).To(BeAssignableToTypeOf(capErr))
		Expect(err.(*CapacityError).TotalBytes).To(Equal(uint64(1000)))
		Expect(err.(*CapacityError).NodeCount).To(Equal(3))
	})

	It("should reject a non-positive node count", func() {
		_, err := allocator.PerNodeCapacity(1024, 0)

		var confErr *ConfigurationError
		Expect(err).To(BeAssignableToTypeOf(confErr))
	})

	It("should default the probe filter to twice the L2 size", func() {
		Expect(allocator.ProbeFilterCapacity(1024*1024, 0)).
			To(Equal(uint64(2 * 1024 * 1024)))
	})

	It("should honor a probe filter override", func() {
		Expect(allocator.ProbeFilterCapacity(1024*1024, 4096)).
			To(Equal(uint64(4096)))
	})
})
