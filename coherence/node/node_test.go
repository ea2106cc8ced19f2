package node

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vihammer/coherence"
	"github.com/sarchlab/vihammer/noc/extnetwork"
)

var _ = Describe("Node binding", func() {
	var (
		network *extnetwork.ExtNetwork
		n       *Node
	)

	BeforeEach(func() {
		network = extnetwork.New("Network")
		n = NewFactory().BuildL1Node("GPU", 0, L1Params{})
	})

	It("should start incomplete", func() {
		Expect(n.Complete()).To(BeFalse())
	})

	It("should be complete once every role is bound", func() {
		for _, role := range n.Roles() {
			t := network.Outbound()
			if role.Side == extnetwork.SideInbound {
				t = network.Inbound()
			}

			Expect(n.Bind(role, t)).To(Succeed())
		}

		Expect(n.Complete()).To(BeTrue())
	})

	It("should bind idempotently", func() {
		role := n.Roles()[0]

		Expect(n.Bind(role, network.Outbound())).To(Succeed())
		Expect(n.Bind(role, network.Outbound())).To(Succeed())

		Expect(network.Bindings()).To(HaveLen(1))
	})

	It("should refuse rebinding to a different transport", func() {
		role := n.Roles()[0]
		other := extnetwork.New("OtherNetwork")

		Expect(n.Bind(role, network.Outbound())).To(Succeed())

		err := n.Bind(role, other.Outbound())

		var rebindErr *coherence.RebindError
		Expect(err).To(BeAssignableToTypeOf(rebindErr))

		bound, ok := n.BoundTransport(role.Name)
		Expect(ok).To(BeTrue())
		Expect(bound).To(Equal(network.Outbound()))
	})

	It("should panic when binding an undeclared role", func() {
		Expect(func() {
			_ = n.Bind(Role{Name: "NoSuchRole"}, network.Outbound())
		}).To(Panic())
	})

	It("should record bindings on the network roster", func() {
		role := n.Roles()[0]

		Expect(n.Bind(role, network.Outbound())).To(Succeed())

		bindings := network.Bindings()
		Expect(bindings).To(HaveLen(1))
		Expect(bindings[0].NodeName).To(Equal("GPU.L1Cntrl[0]"))
		Expect(bindings[0].Role).To(Equal(role.Name))
	})

	It("should belong to at most one cluster", func() {
		n.AttachToCluster("GPU")

		Expect(n.OwnerCluster()).To(Equal("GPU"))
		Expect(func() { n.AttachToCluster("CPU") }).To(Panic())
	})
})

var _ = Describe("RolesFor", func() {
	It("should declare two roles for L1 nodes", func() {
		Expect(RolesFor(KindL1)).To(HaveLen(2))
	})

	It("should declare seven roles for L2 nodes", func() {
		Expect(RolesFor(KindL2)).To(HaveLen(7))
	})

	It("should declare seven roles for directory nodes", func() {
		Expect(RolesFor(KindDirectory)).To(HaveLen(7))
	})

	It("should declare outbound sides for traffic leaving the node", func() {
		for _, role := range RolesFor(KindDirectory) {
			if role.Name == "ForwardFromDir" {
				Expect(role.Side).To(Equal(extnetwork.SideOutbound))
			}

			if role.Name == "RequestToDir" {
				Expect(role.Side).To(Equal(extnetwork.SideInbound))
			}
		}
	})
})
