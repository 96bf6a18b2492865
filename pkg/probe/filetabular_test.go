package probe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTabularProbeParsesNetdev(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net_dev")
	content := "Inter-|   Receive                                                |  Transmit\n" +
		" face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed\n" +
		"  eth0: 1000      10    0    0    0     0          0         0    2000      20    0    0    0     0       0          0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p := NewFileTabularProbe("NetProbe", path, "netinfo")
	data := p.Read()
	require.NotNil(t, data)
	assert.Equal(t, "1000", data["netinfo.eth0.rec.bytes"])
	assert.Equal(t, "2000", data["netinfo.eth0.sent.bytes"])
	assert.True(t, p.CanRead())
}

func TestFileTabularProbeMissingFile(t *testing.T) {
	p := NewFileTabularProbe("NetProbe", "/no/such/path", "netinfo")
	assert.Nil(t, p.Read())
	assert.False(t, p.CanRead())
}
