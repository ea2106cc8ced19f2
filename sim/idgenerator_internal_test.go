package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IDGenerator", func() {
	It("should count up sequentially", func() {
		g := &sequentialIDGenerator{}

		Expect(g.Generate()).To(Equal("1"))
		Expect(g.Generate()).To(Equal("2"))
		Expect(g.Generate()).To(Equal("3"))
	})

	It("should mint unique parallel IDs", func() {
		g := parallelIDGenerator{}

		id1 := g.Generate()
		id2 := g.Generate()

		Expect(id1).NotTo(BeEmpty())
		Expect(id1).NotTo(Equal(id2))
	})

	It("should default to the sequential generator", func() {
		g := GetIDGenerator()

		Expect(g).To(BeAssignableToTypeOf(&sequentialIDGenerator{}))
	})

	It("should refuse changing the generator type after use", func() {
		GetIDGenerator()

		Expect(func() { UseParallelIDGenerator() }).To(Panic())
		Expect(func() { UseSequentialIDGenerator() }).To(Panic())
	})
})
