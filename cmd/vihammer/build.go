package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/vihammer/coherence"
	"github.com/sarchlab/vihammer/coherence/topology"
	"github.com/sarchlab/vihammer/datarecording"
	"github.com/sarchlab/vihammer/mem"
	"github.com/sarchlab/vihammer/monitoring"
	"github.com/sarchlab/vihammer/noc/extnetwork"
	"github.com/sarchlab/vihammer/sim"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the topology from the command-line options.",
	Run: func(cmd *cobra.Command, _ []string) {
		runBuild(cmd)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().Int("num-cpus", 1, "Number of CPU cores")
	buildCmd.Flags().Int("num-sc", 8, "Number of GPU streaming cores")
	buildCmd.Flags().Int("num-l2caches", 8, "Number of GPU L2 cache banks")
	buildCmd.Flags().Int("num-dirs", 1, "Number of CPU-side directories")
	buildCmd.Flags().Int("num-dev-dirs", 1,
		"Number of device directories; 0 merges device memory into the "+
			"CPU-side directories")
	buildCmd.Flags().Int("num-dma", 0, "Number of DMA engines")

	buildCmd.Flags().String("cacheline-size", "64", "Cache line size")
	buildCmd.Flags().String("sc-l1-size", "16kB", "GPU L1 cache size")
	buildCmd.Flags().Int("sc-l1-assoc", 4, "GPU L1 associativity")
	buildCmd.Flags().String("sc-l2-size", "1MB", "GPU L2 cache size")
	buildCmd.Flags().Int("sc-l2-assoc", 16, "GPU L2 associativity")
	buildCmd.Flags().Bool("gpu-l2-resource-stalls", false,
		"Stall on exhausted GPU L2 resources")
	buildCmd.Flags().Int("gpu-l1-buf-depth", 96,
		"GPU L1 request buffer depth")

	buildCmd.Flags().String("pf-size", "",
		"Probe filter capacity; defaults to twice the L2 size")
	buildCmd.Flags().Bool("pf-on", false, "Enable the probe filter")
	buildCmd.Flags().Bool("dir-on", false, "Enable the full-bit directory")
	buildCmd.Flags().Int("numa-high-bit", 0,
		"Highest physical address bit for NUMA interleaving")
	buildCmd.Flags().Int("recycle-latency", 0,
		"Directory recycle latency override")
	buildCmd.Flags().Bool("use-map", false,
		"Use the sparse address map in the directory memory")
	buildCmd.Flags().Int("map-levels", 4,
		"Depth of the directory sparse address map")

	buildCmd.Flags().String("mem-size", "512MB", "CPU physical memory size")
	buildCmd.Flags().String("gpu-mem-size", "256MB",
		"Device physical memory size")

	buildCmd.Flags().Bool("parallel-ids", false,
		"Use globally unique IDs instead of deterministic sequential ones")
	buildCmd.Flags().String("record", "",
		"Record the topology into a SQLite file at the given path")
	buildCmd.Flags().Bool("monitor", false,
		"Serve the topology for inspection after building")
	buildCmd.Flags().Int("monitor-port", 0, "Monitoring server port")
}

func runBuild(cmd *cobra.Command) {
	cfg := configFromFlags(cmd)

	if parallelIDs, _ := cmd.Flags().GetBool("parallel-ids"); parallelIDs {
		sim.UseParallelIDGenerator()
	}

	network := extnetwork.New("ExtNet")

	base, err := topology.MakeBaseBuilder().
		WithConfig(cfg).
		WithNetwork(network).
		Build()
	if err != nil {
		log.Fatalf("Cannot build base fragment: %s", err)
	}

	topo, err := topology.MakeBuilder().
		WithConfig(cfg).
		WithBase(base).
		WithNetwork(network).
		Build()
	if err != nil {
		log.Fatalf("Cannot build topology: %s", err)
	}

	fmt.Printf("Topology %s: %d nodes, %d sequencers, %d directories\n",
		topo.ID,
		len(topo.Root.AllNodes()),
		len(topo.Sequencers),
		len(topo.Directories))

	if path, _ := cmd.Flags().GetString("record"); path != "" {
		writer := datarecording.NewSQLiteWriter(path)
		writer.Init()
		topology.NewRecorder(writer).Record(topo)
	}

	if monitor, _ := cmd.Flags().GetBool("monitor"); monitor {
		port, _ := cmd.Flags().GetInt("monitor-port")

		m := monitoring.NewMonitor().WithPortNumber(port)
		m.RegisterTopology(topo)
		m.RegisterNetwork(network)
		m.StartDashboard()

		select {}
	}

	atexit.Exit(0)
}

func configFromFlags(cmd *cobra.Command) coherence.Config {
	flags := cmd.Flags()

	numCPUs, _ := flags.GetInt("num-cpus")
	numSC, _ := flags.GetInt("num-sc")
	numL2, _ := flags.GetInt("num-l2caches")
	numDirs, _ := flags.GetInt("num-dirs")
	numDevDirs, _ := flags.GetInt("num-dev-dirs")
	numDMA, _ := flags.GetInt("num-dma")

	l1Assoc, _ := flags.GetInt("sc-l1-assoc")
	l2Assoc, _ := flags.GetInt("sc-l2-assoc")
	l2Stalls, _ := flags.GetBool("gpu-l2-resource-stalls")
	l1BufDepth, _ := flags.GetInt("gpu-l1-buf-depth")

	pfOn, _ := flags.GetBool("pf-on")
	dirOn, _ := flags.GetBool("dir-on")
	numaHighBit, _ := flags.GetInt("numa-high-bit")
	recycleLatency, _ := flags.GetInt("recycle-latency")
	useMap, _ := flags.GetBool("use-map")
	mapLevels, _ := flags.GetInt("map-levels")

	return coherence.Config{
		NumCPUs:           numCPUs,
		NumStreamingCores: numSC,
		NumL2Caches:       numL2,
		NumCPUDirs:        numDirs,
		NumDMAs:           numDMA,
		NumDeviceDirs:     numDevDirs,

		CachelineSize: memSizeFlag(cmd, "cacheline-size"),

		L1Size:           memSizeFlag(cmd, "sc-l1-size"),
		L1Assoc:          l1Assoc,
		L2Size:           memSizeFlag(cmd, "sc-l2-size"),
		L2Assoc:          l2Assoc,
		L2ResourceStalls: l2Stalls,
		GPUL1BufDepth:    l1BufDepth,

		ProbeFilterSize:    optionalMemSizeFlag(cmd, "pf-size"),
		ProbeFilterEnabled: pfOn,
		FullBitDirEnabled:  dirOn,

		NumaHighBit:    numaHighBit,
		RecycleLatency: recycleLatency,
		UseMap:         useMap,
		MapLevels:      mapLevels,

		CPUPhysMemSize:    memSizeFlag(cmd, "mem-size"),
		DevicePhysMemSize: memSizeFlag(cmd, "gpu-mem-size"),

		CoSimEnabled: os.Getenv("VIHAMMER_NO_COSIM") == "",
	}
}

func memSizeFlag(cmd *cobra.Command, name string) uint64 {
	value, _ := cmd.Flags().GetString(name)

	size, err := parseMemSize(value)
	if err != nil {
		log.Fatalf("Invalid --%s: %s", name, err)
	}

	return size
}

func optionalMemSizeFlag(cmd *cobra.Command, name string) uint64 {
	value, _ := cmd.Flags().GetString(name)
	if value == "" {
		return 0
	}

	return memSizeFlag(cmd, name)
}

// parseMemSize parses sizes such as "64", "16kB", "8MB", and "2GB".
func parseMemSize(s string) (uint64, error) {
	unit := uint64(1)
	numPart := s

	switch {
	case strings.HasSuffix(s, "kB"), strings.HasSuffix(s, "KB"):
		unit = mem.KB
		numPart = s[:len(s)-2]
	case strings.HasSuffix(s, "MB"):
		unit = mem.MB
		numPart = s[:len(s)-2]
	case strings.HasSuffix(s, "GB"):
		unit = mem.GB
		numPart = s[:len(s)-2]
	}

	n, err := strconv.ParseUint(strings.TrimSpace(numPart), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse memory size %q", s)
	}

	return n * unit, nil
}
