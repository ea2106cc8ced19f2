package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vihammer/coherence"
	"github.com/sarchlab/vihammer/coherence/topology"
	"github.com/sarchlab/vihammer/mem"
	"github.com/sarchlab/vihammer/noc/extnetwork"
)

var _ = Describe("Monitor port selection", func() {
	It("should treat zero as a request for a random port", func() {
		m := NewMonitor().WithPortNumber(0)

		Expect(m.portNumber).To(Equal(0))
	})

	It("should fall back to a random port for privileged ports", func() {
		m := NewMonitor().WithPortNumber(80)

		Expect(m.portNumber).To(Equal(0))
	})

	It("should keep a regular port", func() {
		m := NewMonitor().WithPortNumber(8080)

		Expect(m.portNumber).To(Equal(8080))
	})
})

var _ = Describe("Monitor", func() {
	var (
		monitor *Monitor
		server  *httptest.Server
	)

	BeforeEach(func() {
		cfg := coherence.Config{
			NumCPUs:           2,
			NumStreamingCores: 4,
			NumL2Caches:       4,
			NumCPUDirs:        2,
			NumDMAs:           1,
			NumDeviceDirs:     2,
			CachelineSize:     64,
			L1Size:            16 * mem.KB,
			L1Assoc:           4,
			L2Size:            1 * mem.MB,
			L2Assoc:           8,
			GPUL1BufDepth:     24,
			CPUPhysMemSize:    256 * mem.MB,
			DevicePhysMemSize: 128 * mem.MB,
			CoSimEnabled:      true,
		}
		network := extnetwork.New("ExtNet")

		base, err := topology.MakeBaseBuilder().
			WithConfig(cfg).
			WithNetwork(network).
			Build()
		Expect(err).NotTo(HaveOccurred())

		topo, err := topology.MakeBuilder().
			WithConfig(cfg).
			WithBase(base).
			WithNetwork(network).
			Build()
		Expect(err).NotTo(HaveOccurred())

		monitor = NewMonitor()
		monitor.RegisterTopology(topo)
		monitor.RegisterNetwork(network)

		server = httptest.NewServer(monitor.router())
	})

	AfterEach(func() {
		server.Close()
	})

	It("should report the topology summary", func() {
		resp, err := http.Get(server.URL + "/api/topology")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		var view topologyView
		Expect(json.NewDecoder(resp.Body).Decode(&view)).To(Succeed())

		Expect(view.NumSequencers).To(Equal(8))
		Expect(view.NumDirectories).To(Equal(4))
		Expect(view.Layout.BlockOffsetBits).To(Equal(6))
		Expect(view.Layout.L2IndexBits).To(Equal(2))
	})

	It("should list nodes", func() {
		resp, err := http.Get(server.URL + "/api/nodes")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		var views []nodeView
		Expect(json.NewDecoder(resp.Body).Decode(&views)).To(Succeed())

		Expect(views).To(HaveLen(15))
	})

	It("should serve node details", func() {
		resp, err := http.Get(server.URL + "/api/node/DevDirCntrl[0]")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		var view nodeView
		Expect(json.NewDecoder(resp.Body).Decode(&view)).To(Succeed())

		Expect(view.Kind).To(Equal("Directory"))
		Expect(view.Version).To(Equal(2))
	})

	It("should answer 404 for an unknown node", func() {
		resp, err := http.Get(server.URL + "/api/node/NoSuchNode")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("should serve the binding roster", func() {
		resp, err := http.Get(server.URL + "/api/bindings")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		var views []bindingView
		Expect(json.NewDecoder(resp.Body).Decode(&views)).To(Succeed())

		Expect(len(views)).To(BeNumerically(">", 0))
		for _, b := range views {
			Expect(b.Side).To(BeElementOf("Outbound", "Inbound"))
		}
	})

	It("should walk the cluster tree", func() {
		resp, err := http.Get(server.URL + "/api/clusters")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		var views []clusterView
		Expect(json.NewDecoder(resp.Body).Decode(&views)).To(Succeed())

		Expect(views[0].Name).To(Equal("Platform"))
		Expect(views).To(HaveLen(9))
	})
})
