package cluster

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vihammer/coherence/node"
)

var _ = Describe("Cluster", func() {
	var (
		factory *node.Factory
		root    *Cluster
	)

	BeforeEach(func() {
		factory = node.NewFactory()
		root = New("Platform", 32, 32)
	})

	It("should report its bandwidth", func() {
		Expect(root.InternalBandwidth()).To(Equal(32))
		Expect(root.ExternalBandwidth()).To(Equal(32))
	})

	It("should own its direct children", func() {
		n := factory.BuildL1Node("GPU", 0, node.L1Params{})

		root.AddNode(n)

		Expect(root.Nodes()).To(HaveLen(1))
		Expect(n.OwnerCluster()).To(Equal("Platform"))
	})

	It("should refuse a node that belongs elsewhere", func() {
		n := factory.BuildL1Node("GPU", 0, node.L1Params{})
		other := New("GPU", 32, 32)
		other.AddNode(n)

		Expect(func() { root.AddNode(n) }).To(Panic())
	})

	It("should refuse a sub-cluster that has a parent", func() {
		sub := New("GPU", 32, 32)
		root.AddCluster(sub)

		another := New("CPU", 32, 32)

		Expect(func() { another.AddCluster(sub) }).To(Panic())
	})

	It("should collect nodes across the subtree", func() {
		gpu := New("GPU", 32, 32)
		l2 := New("GPU.L2Cluster[0]", 32, 32)

		l2.AddNode(factory.BuildL2Node("GPU", 0, node.L2Params{}))
		gpu.AddNode(factory.BuildL1Node("GPU", 0, node.L1Params{}))
		gpu.AddCluster(l2)
		root.AddCluster(gpu)

		Expect(root.AllNodes()).To(HaveLen(2))
	})

	It("should refuse mutation once frozen", func() {
		gpu := New("GPU", 32, 32)
		root.AddCluster(gpu)
		root.Freeze()

		Expect(gpu.Frozen()).To(BeTrue())
		Expect(func() {
			gpu.AddNode(factory.BuildL1Node("GPU", 0, node.L1Params{}))
		}).To(Panic())
	})
})
