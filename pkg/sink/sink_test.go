package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tommyippoz/arancino-monitor/pkg/sample"
)

func TestAppendWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	s := New(path, "timestamp", "cpu.load")

	require.NoError(t, s.Append([]sample.Sample{
		{"timestamp": int64(1000), "cpu.load": 0.5},
	}))
	require.NoError(t, s.Append([]sample.Sample{
		{"timestamp": int64(2000), "cpu.load": 0.7},
	}))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "timestamp,cpu.load\n1000,0.5\n2000,0.7\n", string(data))
}

func TestAppendMissingColumnIsBlank(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	s := New(path, "timestamp", "cpu.load", "mem.used")

	require.NoError(t, s.Append([]sample.Sample{
		{"timestamp": int64(1000), "cpu.load": 0.5},
	}))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "timestamp,cpu.load,mem.used\n1000,0.5,\n", string(data))
}

func TestAppendToExistingFileDoesNotRewriteHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	first := New(path, "timestamp", "x")
	require.NoError(t, first.Append([]sample.Sample{{"timestamp": int64(1), "x": 1}}))
	require.NoError(t, first.Close())

	second := New(path, "timestamp", "x")
	require.NoError(t, second.Append([]sample.Sample{{"timestamp": int64(2), "x": 2}}))
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "timestamp,x\n1,1\n2,2\n", string(data))
}

func TestAppendEmptyRowsIsNoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	s := New(path, "timestamp")
	require.NoError(t, s.Append(nil))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
