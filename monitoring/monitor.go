// Package monitoring turns an assembled topology into a small web server so
// that the node inventory, the endpoint roster, and the address layout can be
// inspected from a browser.
package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"

	"github.com/sarchlab/vihammer/coherence/cluster"
	"github.com/sarchlab/vihammer/coherence/node"
	"github.com/sarchlab/vihammer/coherence/topology"
	"github.com/sarchlab/vihammer/noc/extnetwork"
)

// Monitor serves a read-only view of a finished topology.
type Monitor struct {
	topology   *topology.Topology
	network    *extnetwork.ExtNetwork
	portNumber int
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor. Zero picks a random
// port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber > 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterTopology registers the topology to serve.
func (m *Monitor) RegisterTopology(t *topology.Topology) {
	m.topology = t
}

// RegisterNetwork registers the network whose binding roster is served.
func (m *Monitor) RegisterNetwork(n *extnetwork.ExtNetwork) {
	m.network = n
}

// StartServer starts the monitor as a web server, with a custom port if
// wanted. It returns the URL the server listens on.
func (m *Monitor) StartServer() string {
	r := m.router()

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring topology with %s\n", url)

	go func() {
		err := http.Serve(listener, r)
		dieOnErr(err)
	}()

	return url
}

// StartDashboard starts the server and opens it in the default browser.
func (m *Monitor) StartDashboard() {
	url := m.StartServer()

	if err := browser.OpenURL(url); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open browser: %s\n", err)
	}
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/topology", m.topologySummary)
	r.HandleFunc("/api/nodes", m.listNodes)
	r.HandleFunc("/api/node/{name}", m.nodeDetails)
	r.HandleFunc("/api/sequencers", m.listSequencers)
	r.HandleFunc("/api/bindings", m.listBindings)
	r.HandleFunc("/api/clusters", m.listClusters)

	return r
}

type topologyView struct {
	ID             string     `json:"id"`
	NumNodes       int        `json:"num_nodes"`
	NumSequencers  int        `json:"num_sequencers"`
	NumDirectories int        `json:"num_directories"`
	Layout         layoutView `json:"layout"`
}

type layoutView struct {
	BlockOffsetBits      int `json:"block_offset_bits"`
	L2IndexBits          int `json:"l2_index_bits"`
	DirectoryIndexBits   int `json:"directory_index_bits"`
	ProbeFilterIndexBits int `json:"probe_filter_index_bits"`
	ProbeFilterStartBit  int `json:"probe_filter_start_bit"`
}

type nodeView struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Version int    `json:"version"`
	Cluster string `json:"cluster"`
}

type sequencerView struct {
	Name             string `json:"name"`
	Version          int    `json:"version"`
	MaxOutstanding   int    `json:"max_outstanding"`
	SupportsInstReqs bool   `json:"supports_inst_reqs"`
}

type bindingView struct {
	Node string `json:"node"`
	Role string `json:"role"`
	Side string `json:"side"`
}

type clusterView struct {
	Name              string   `json:"name"`
	InternalBandwidth int      `json:"internal_bandwidth"`
	ExternalBandwidth int      `json:"external_bandwidth"`
	Nodes             []string `json:"nodes"`
	Clusters          []string `json:"clusters"`
}

func (m *Monitor) topologySummary(w http.ResponseWriter, _ *http.Request) {
	t := m.topology

	writeJSON(w, topologyView{
		ID:             t.ID,
		NumNodes:       len(t.Root.AllNodes()),
		NumSequencers:  len(t.Sequencers),
		NumDirectories: len(t.Directories),
		Layout: layoutView{
			BlockOffsetBits:      t.Layout.BlockOffsetBits,
			L2IndexBits:          t.Layout.L2IndexBits,
			DirectoryIndexBits:   t.Layout.DirectoryIndexBits,
			ProbeFilterIndexBits: t.Layout.ProbeFilterIndexBits,
			ProbeFilterStartBit:  t.Layout.ProbeFilterStartBit,
		},
	})
}

func (m *Monitor) listNodes(w http.ResponseWriter, _ *http.Request) {
	nodes := m.topology.Root.AllNodes()

	views := make([]nodeView, 0, len(nodes))
	for _, n := range nodes {
		views = append(views, viewNode(n))
	}

	writeJSON(w, views)
}

func (m *Monitor) nodeDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	n := m.findNodeOr404(w, name)
	if n == nil {
		return
	}

	writeJSON(w, viewNode(n))
}

func (m *Monitor) listSequencers(w http.ResponseWriter, _ *http.Request) {
	views := make([]sequencerView, 0, len(m.topology.Sequencers))
	for _, seq := range m.topology.Sequencers {
		views = append(views, sequencerView{
			Name:             seq.Name(),
			Version:          seq.Version(),
			MaxOutstanding:   seq.MaxOutstanding(),
			SupportsInstReqs: seq.SupportsInstReqs(),
		})
	}

	writeJSON(w, views)
}

func (m *Monitor) listBindings(w http.ResponseWriter, _ *http.Request) {
	bindings := m.network.Bindings()

	views := make([]bindingView, 0, len(bindings))
	for _, b := range bindings {
		views = append(views, bindingView{
			Node: b.NodeName,
			Role: b.Role,
			Side: b.Side.String(),
		})
	}

	writeJSON(w, views)
}

func (m *Monitor) listClusters(w http.ResponseWriter, _ *http.Request) {
	views := []clusterView{}
	collectClusters(m.topology.Root, &views)

	writeJSON(w, views)
}

func collectClusters(c *cluster.Cluster, out *[]clusterView) {
	v := clusterView{
		Name:              c.Name(),
		InternalBandwidth: c.InternalBandwidth(),
		ExternalBandwidth: c.ExternalBandwidth(),
		Nodes:             []string{},
		Clusters:          []string{},
	}

	for _, n := range c.Nodes() {
		v.Nodes = append(v.Nodes, n.Name())
	}

	for _, sub := range c.Clusters() {
		v.Clusters = append(v.Clusters, sub.Name())
	}

	*out = append(*out, v)

	for _, sub := range c.Clusters() {
		collectClusters(sub, out)
	}
}

func (m *Monitor) findNodeOr404(
	w http.ResponseWriter,
	name string,
) *node.Node {
	for _, n := range m.topology.Root.AllNodes() {
		if n.Name() == name {
			return n
		}
	}

	w.WriteHeader(http.StatusNotFound)

	return nil
}

func viewNode(n *node.Node) nodeView {
	return nodeView{
		Name:    n.Name(),
		Kind:    n.Kind().String(),
		Version: n.Version(),
		Cluster: n.OwnerCluster(),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(v)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
