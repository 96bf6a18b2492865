package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellTabularParseWithSentinel(t *testing.T) {
	p := NewShellTabularProbe("IOStat", "cat", "iostat", "avg-cpu")
	text := "Linux 5.x\n\navg-cpu:  %user   %nice %system %iowait  %steal   %idle\n           1.23    0.00    2.34     0.01    0.00   96.42\n\nDevice ...\n"
	got := p.parse(text)
	assert.Equal(t, "1.23", got["user"])
	assert.Equal(t, "96.42", got["idle"])
}

func TestShellTabularParseWithoutSentinelIsEmpty(t *testing.T) {
	p := NewShellTabularProbe("IOStat", "cat", "iostat", "avg-cpu")
	got := p.parse("no matching output here\n")
	assert.Empty(t, got)
}
