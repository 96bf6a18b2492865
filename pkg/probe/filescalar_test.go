package probe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileScalarProbeReadsInteger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "temp")
	require.NoError(t, os.WriteFile(path, []byte("42000\n"), 0o644))

	p := NewFileScalarProbe("Temperature", path, "temperature")
	data := p.Read()
	require.NotNil(t, data)
	assert.Equal(t, 42000, data["temperature"])
	assert.True(t, p.CanRead())
}

func TestFileScalarProbeNonNumericIsNil(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "temp")
	require.NoError(t, os.WriteFile(path, []byte("not-a-number\n"), 0o644))

	p := NewFileScalarProbe("Temperature", path, "temperature")
	assert.Nil(t, p.Read())
}
