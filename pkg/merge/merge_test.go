package merge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMergeLabelsRowsInsideInterval(t *testing.T) {
	dir := t.TempDir()
	monitor := writeFile(t, dir, "monitor.csv", "timestamp,cpu\n100,1\n150,2\n300,3\n")
	injections := writeFile(t, dir, "injections.csv", "start,end,tag\n120,200,CPU\n")
	out := filepath.Join(dir, "out.csv")

	nInj, nRows, err := Merge(monitor, injections, out, "timestamp")

	require.NoError(t, err)
	assert.Equal(t, 1, nInj)
	assert.Equal(t, 3, nRows)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "timestamp,cpu,label\n100,1,normal\n150,2,CPU\n300,3,normal\n", string(data))
}

func TestMergeIntervalBoundariesAreInclusive(t *testing.T) {
	dir := t.TempDir()
	monitor := writeFile(t, dir, "monitor.csv", "timestamp,cpu\n100,1\n200,1\n")
	injections := writeFile(t, dir, "injections.csv", "start,end,tag\n100,200,CPU\n")
	out := filepath.Join(dir, "out.csv")

	_, _, err := Merge(monitor, injections, out, "timestamp")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "timestamp,cpu,label\n100,1,CPU\n200,1,CPU\n", string(data))
}

func TestMergeNoInjectionsLabelsEverythingNormal(t *testing.T) {
	dir := t.TempDir()
	monitor := writeFile(t, dir, "monitor.csv", "timestamp,cpu\n1,1\n2,2\n")
	injections := writeFile(t, dir, "injections.csv", "start,end,tag\n")
	out := filepath.Join(dir, "out.csv")

	nInj, nRows, err := Merge(monitor, injections, out, "timestamp")

	require.NoError(t, err)
	assert.Equal(t, 0, nInj)
	assert.Equal(t, 2, nRows)
}

func TestMergeFallsBackToAlternateTimestampColumn(t *testing.T) {
	dir := t.TempDir()
	monitor := writeFile(t, dir, "monitor.csv", "_timestamp,cpu\n5,1\n")
	injections := writeFile(t, dir, "injections.csv", "start,end,tag\n")
	out := filepath.Join(dir, "out.csv")

	_, nRows, err := Merge(monitor, injections, out, "timestamp")

	require.NoError(t, err)
	assert.Equal(t, 1, nRows)
}

func TestMergeMissingTimestampColumnErrors(t *testing.T) {
	dir := t.TempDir()
	monitor := writeFile(t, dir, "monitor.csv", "foo,cpu\n5,1\n")
	injections := writeFile(t, dir, "injections.csv", "start,end,tag\n")
	out := filepath.Join(dir, "out.csv")

	_, _, err := Merge(monitor, injections, out, "timestamp")

	assert.Error(t, err)
}

func TestMergeAdvancesCursorPastExpiredIntervals(t *testing.T) {
	dir := t.TempDir()
	monitor := writeFile(t, dir, "monitor.csv", "timestamp,cpu\n10,1\n50,2\n250,3\n")
	injections := writeFile(t, dir, "injections.csv",
		"start,end,tag\n0,20,A\n200,300,B\n")
	out := filepath.Join(dir, "out.csv")

	_, _, err := Merge(monitor, injections, out, "timestamp")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "timestamp,cpu,label\n10,1,A\n50,2,normal\n250,3,B\n", string(data))
}
