package inject

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
	"github.com/tommyippoz/arancino-monitor/pkg/util/log"
)

// Record is one entry of a declarative injector spec document, per
// spec.md §6.
type Record struct {
	Type       string `yaml:"type"`
	Tag        string `yaml:"tag"`
	DurationMs int64  `yaml:"duration_ms"`

	ItemsForLoop  int      `yaml:"items_for_loop"`
	NWorkers      int      `yaml:"n_workers"`
	NBlocks       int      `yaml:"n_blocks"`
	NThreads      int      `yaml:"n_threads"`
	NLocks        int      `yaml:"n_locks"`
	ParallelReads int      `yaml:"parallel_reads"`
	SitesURLs     []string `yaml:"sites_urls"`
	SitesCSV      string   `yaml:"sites_csv"`
	ProcessName   string   `yaml:"process_name"`
}

// typeAliases maps every accepted `type` token from spec.md §6 to the
// canonical variant it names.
var typeAliases = map[string]string{
	"Memory": "memory", "RAM": "memory", "MemoryUsage": "memory", "Mem": "memory", "MemoryStress": "memory",

	"Disk": "disk", "SSD": "disk", "DiskMemoryUsage": "disk", "DiskStress": "disk",

	"CPU": "cpu", "Proc": "cpu", "CPUUsage": "cpu", "CPUStress": "cpu",

	"Deadlock": "deadlock", "Dl": "deadlock", "Dead": "deadlock",

	"HTTP": "http", "HTTPRead": "http", "NetRead": "http", "WebRead": "http", "SiteRead": "http",

	"Redis": "kv_get", "RedisGet": "kv_get", "redis": "kv_get", "redisget": "kv_get", "Redis-Get": "kv_get",

	"RedisMem": "kv_set", "RedisSet": "kv_set", "redismem": "kv_set", "redisset": "kv_set",
	"Redis-Set": "kv_set", "Redis-Mem": "kv_set",

	"StopProcess": "process_hang", "Process": "process_hang",
}

// LoadSpecFile parses a YAML declarative injector spec document from path
// and instantiates the named variants with their supplied parameters.
// Unknown `type` tokens are ignored with a warning, per spec.md §4.6.
// durationMsOverride, when non-zero, overrides every record's own
// duration_ms, per spec.md §6 ("duration_ms: overridden by the campaign's
// global duration_ms").
func LoadSpecFile(clk *clock.Source, path string, redisAddr, scratchDir string, durationMsOverride int64) ([]Injector, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inject: reading spec %s: %w", path, err)
	}
	var records []Record
	if err := yaml.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("inject: parsing spec %s: %w", path, err)
	}
	return BuildFromRecords(clk, records, redisAddr, scratchDir, durationMsOverride)
}

// BuildFromRecords instantiates the injectors named by records.
func BuildFromRecords(clk *clock.Source, records []Record, redisAddr, scratchDir string, durationMsOverride int64) ([]Injector, error) {
	injectors := make([]Injector, 0, len(records))
	for _, rec := range records {
		variant, ok := typeAliases[rec.Type]
		if !ok {
			log.Warnf("inject: unknown injector type %q, ignoring", rec.Type)
			continue
		}

		duration := rec.DurationMs
		if durationMsOverride > 0 {
			duration = durationMsOverride
		}
		if duration <= 0 {
			duration = 1000
		}

		inj, err := buildOne(clk, variant, rec, duration, redisAddr, scratchDir)
		if err != nil {
			log.Warnf("inject: could not build injector for type %q: %v", rec.Type, err)
			continue
		}
		injectors = append(injectors, inj)
	}
	return injectors, nil
}

func buildOne(clk *clock.Source, variant string, rec Record, duration int64, redisAddr, scratchDir string) (Injector, error) {
	switch variant {
	case "memory":
		items := rec.ItemsForLoop
		if items <= 0 {
			items = 1234567
		}
		return NewMemoryInjector(clk, duration, items), nil
	case "disk":
		nWorkers := rec.NWorkers
		if nWorkers <= 0 {
			nWorkers = 10
		}
		nBlocks := rec.NBlocks
		if nBlocks <= 0 {
			nBlocks = 10
		}
		return NewDiskInjector(clk, duration, nWorkers, nBlocks, scratchDir), nil
	case "cpu":
		return NewCPUInjector(clk, duration), nil
	case "deadlock":
		nThreads := rec.NThreads
		if nThreads < 2 {
			nThreads = 2
		}
		nLocks := rec.NLocks
		if nLocks <= 0 {
			nLocks = 1
		}
		return NewDeadlockInjector(clk, duration, nThreads, nLocks, scratchDir), nil
	case "http":
		parallel := rec.ParallelReads
		if parallel <= 0 {
			parallel = 1
		}
		urls := rec.SitesURLs
		if len(urls) == 0 {
			urls = []string{"www.google.com"}
		}
		return NewHTTPReadInjector(clk, duration, parallel, urls), nil
	case "kv_get":
		nWorkers := rec.NWorkers
		if nWorkers <= 0 {
			nWorkers = 2
		}
		return NewKVStoreGetInjector(clk, duration, nWorkers, redisAddr), nil
	case "kv_set":
		return NewKVStoreSetInjector(clk, duration, redisAddr), nil
	case "process_hang":
		name := rec.ProcessName
		if name == "" {
			name = "arancino"
		}
		return NewProcessHangInjector(clk, duration, name), nil
	default:
		return nil, fmt.Errorf("unhandled variant %q", variant)
	}
}

// DefaultInjectors returns the built-in set used when no declarative spec
// is configured: Memory, CPU, Disk, Spin, KVStoreGet, per spec.md §4.6.
func DefaultInjectors(clk *clock.Source, durationMs int64, redisAddr, scratchDir string) []Injector {
	return []Injector{
		NewMemoryInjector(clk, durationMs, 1234567),
		NewCPUInjector(clk, durationMs),
		NewDiskInjector(clk, durationMs, 10, 10, scratchDir),
		NewSpinInjector(clk, durationMs),
		NewKVStoreGetInjector(clk, durationMs, 2, redisAddr),
	}
}
