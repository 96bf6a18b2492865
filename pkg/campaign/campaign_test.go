package campaign

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tommyippoz/arancino-monitor/pkg/inject"
)

func TestWriteLogThenHarvestRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "injections.csv")
	intervals := []inject.NamedInterval{
		{Interval: inject.Interval{Start: 10, End: 20}, InjName: "SpinInjection(d10)"},
		{Interval: inject.Interval{Start: 30, End: 45}, InjName: "MemoryInjection(d15)"},
	}

	require.NoError(t, writeLog(path, intervals))

	runner := &Runner{logFile: path}
	got, err := runner.Harvest()

	require.NoError(t, err)
	assert.Equal(t, intervals, got)
}

func TestWriteLogEmptyIntervalsStillWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "injections.csv")

	require.NoError(t, writeLog(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "start,end,inj_name\n", string(data))
}
