package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseColonKV(t *testing.T) {
	text := "MemTotal:       8143436 kB\nMemFree:        123 kB\n\nBad line no colon\n"
	got := parseColonKV(text)
	assert.Equal(t, "8143436", got["MemTotal"])
	assert.Equal(t, "123", got["MemFree"])
	_, ok := got["Bad line no colon"]
	assert.False(t, ok)
}

func TestParseSpaceKV(t *testing.T) {
	text := "nr_free_pages 12345\nnr_zone_inactive_anon 67\n"
	got := parseSpaceKV(text)
	assert.Equal(t, "12345", got["nr_free_pages"])
	assert.Equal(t, "67", got["nr_zone_inactive_anon"])
}

func TestShellKVProbeReadPrefixesTag(t *testing.T) {
	p := NewShellKVProbe("MemInfo", "printf", "meminfo", "MemTotal: 100 kB\n")
	data := p.Read()
	if assert.NotNil(t, data) {
		assert.Equal(t, "100", data["meminfo.MemTotal"])
	}
	assert.Equal(t, []string{"meminfo.MemTotal"}, p.ListIndicators())
}

func TestShellKVProbeReadFailureReturnsNil(t *testing.T) {
	p := NewShellKVProbe("Nope", "definitely-not-a-real-binary-xyz", "x")
	assert.Nil(t, p.Read())
	assert.False(t, p.CanRead())
}
