package inject

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
)

func TestBuildFromRecordsResolvesEveryAliasTable(t *testing.T) {
	clk := clock.New()
	cases := []struct {
		alias string
		want  string
	}{
		{"Memory", "MemoryUsageInjection"}, {"RAM", "MemoryUsageInjection"}, {"MemoryStress", "MemoryUsageInjection"},
		{"Disk", "DiskStressInjection"}, {"SSD", "DiskStressInjection"},
		{"CPU", "CPUStressInjection"}, {"Proc", "CPUStressInjection"},
		{"Deadlock", "DeadlockInjection"}, {"Dl", "DeadlockInjection"},
		{"HTTP", "HTTPReadInjection"}, {"SiteRead", "HTTPReadInjection"},
		{"Redis", "RedisStressGetInjection"}, {"redisget", "RedisStressGetInjection"},
		{"RedisMem", "RedisStressSetInjection"}, {"Redis-Set", "RedisStressSetInjection"},
		{"StopProcess", "ProcessHangInjection"}, {"Process", "ProcessHangInjection"},
	}

	for _, c := range cases {
		injectors, err := BuildFromRecords(clk, []Record{{Type: c.alias, DurationMs: 100}}, "localhost:6379", t.TempDir(), 0)
		require.NoError(t, err, c.alias)
		require.Len(t, injectors, 1, c.alias)
		assert.Contains(t, injectors[0].Name(), c.want, c.alias)
	}
}

func TestBuildFromRecordsSkipsUnknownType(t *testing.T) {
	clk := clock.New()
	injectors, err := BuildFromRecords(clk, []Record{{Type: "NotARealType"}}, "localhost:6379", t.TempDir(), 0)

	require.NoError(t, err)
	assert.Empty(t, injectors)
}

func TestBuildFromRecordsDurationOverrideWins(t *testing.T) {
	clk := clock.New()
	injectors, err := BuildFromRecords(clk, []Record{{Type: "CPU", DurationMs: 999}}, "", t.TempDir(), 50)

	require.NoError(t, err)
	require.Len(t, injectors, 1)
	assert.Contains(t, injectors[0].Name(), "d50")
}

func TestDefaultInjectorsReturnsTheDocumentedFiveVariants(t *testing.T) {
	clk := clock.New()
	injectors := DefaultInjectors(clk, 1000, "localhost:6379", t.TempDir())

	require.Len(t, injectors, 5)
	names := make([]string, len(injectors))
	for i, inj := range injectors {
		names[i] = inj.Name()
	}
	assert.Contains(t, names[0], "Memory")
	assert.Contains(t, names[1], "CPU")
	assert.Contains(t, names[2], "Disk")
	assert.Contains(t, names[3], "Spin")
	assert.Contains(t, names[4], "RedisStressGet")
}

func TestLoadSpecFileParsesYAML(t *testing.T) {
	clk := clock.New()
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.yaml")
	doc := "- type: CPU\n  duration_ms: 2000\n- type: NotRealEither\n- type: Disk\n  n_workers: 3\n  n_blocks: 4\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	injectors, err := LoadSpecFile(clk, path, "localhost:6379", dir, 0)

	require.NoError(t, err)
	require.Len(t, injectors, 2)
	assert.Contains(t, injectors[0].Name(), "CPUStressInjection(d2000")
	assert.Contains(t, injectors[1].Name(), "DiskStressInjection")
	assert.Contains(t, injectors[1].Name(), "w3-b4")
}
