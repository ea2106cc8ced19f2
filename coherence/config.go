package coherence

// Config is the immutable set of scalars that drives one topology build. The
// CLI or hosting simulator fills it in once; the build only reads it.
type Config struct {
	NumCPUs           int
	NumStreamingCores int
	NumL2Caches       int
	NumCPUDirs        int
	NumDMAs           int
	NumDeviceDirs     int

	CachelineSize uint64

	L1Size           uint64
	L1Assoc          int
	L2Size           uint64
	L2Assoc          int
	L2ResourceStalls bool
	GPUL1BufDepth    int

	// ProbeFilterSize overrides the default probe-filter capacity of twice
	// the L2 size when non-zero.
	ProbeFilterSize    uint64
	ProbeFilterEnabled bool
	FullBitDirEnabled  bool

	// NumaHighBit is the highest physical address bit used for NUMA
	// interleaving. Zero means not configured.
	NumaHighBit int

	// RecycleLatency, when non-zero, overrides the directory controller
	// recycle latency.
	RecycleLatency int

	// UseMap switches the directory memory to its sparse address map;
	// MapLevels sets the depth of that map.
	UseMap    bool
	MapLevels int

	CPUPhysMemSize    uint64
	DevicePhysMemSize uint64

	// CoSimEnabled tells whether the hosting runtime carries the GPU
	// co-simulation integration this topology depends on.
	CoSimEnabled bool
}

// Validate checks that all required scalars are present and plausible.
// Power-of-two requirements are checked by the address layout planner.
func (c Config) Validate() error {
	if !c.CoSimEnabled {
		return &ConfigurationError{
			Field:  "CoSimEnabled",
			Reason: "this topology requires GPU co-simulation integration",
		}
	}

	positives := []struct {
		field string
		value int
	}{
		{"NumCPUs", c.NumCPUs},
		{"NumStreamingCores", c.NumStreamingCores},
		{"NumL2Caches", c.NumL2Caches},
		{"NumCPUDirs", c.NumCPUDirs},
		{"L1Assoc", c.L1Assoc},
		{"L2Assoc", c.L2Assoc},
		{"GPUL1BufDepth", c.GPUL1BufDepth},
	}
	for _, p := range positives {
		if p.value <= 0 {
			return &ConfigurationError{
				Field:  p.field,
				Reason: "must be positive",
			}
		}
	}

	sizes := []struct {
		field string
		value uint64
	}{
		{"CachelineSize", c.CachelineSize},
		{"L1Size", c.L1Size},
		{"L2Size", c.L2Size},
		{"CPUPhysMemSize", c.CPUPhysMemSize},
		{"DevicePhysMemSize", c.DevicePhysMemSize},
	}
	for _, s := range sizes {
		if s.value == 0 {
			return &ConfigurationError{
				Field:  s.field,
				Reason: "must be non-zero",
			}
		}
	}

	if c.NumDeviceDirs < 0 {
		return &ConfigurationError{
			Field:  "NumDeviceDirs",
			Reason: "must not be negative",
		}
	}

	if c.NumDMAs < 0 {
		return &ConfigurationError{
			Field:  "NumDMAs",
			Reason: "must not be negative",
		}
	}

	if c.NumaHighBit < 0 {
		return &ConfigurationError{
			Field:  "NumaHighBit",
			Reason: "must not be negative",
		}
	}

	return nil
}
