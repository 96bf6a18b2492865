package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
	"github.com/tommyippoz/arancino-monitor/pkg/sample"
)

type fakeProbe struct {
	available bool
	data      sample.Sample
	reads     int
}

func (f *fakeProbe) Describe() string { return "fake" }
func (f *fakeProbe) CanRead() bool    { return f.available }
func (f *fakeProbe) ListIndicators() []string {
	out := make([]string, 0, len(f.data))
	for k := range f.data {
		out = append(out, k)
	}
	return out
}
func (f *fakeProbe) Read() sample.Sample {
	f.reads++
	return f.data
}

type panicProbe struct{}

func (panicProbe) Describe() string         { return "panics" }
func (panicProbe) CanRead() bool            { return true }
func (panicProbe) ListIndicators() []string { return nil }
func (panicProbe) Read() sample.Sample      { panic("boom") }

func TestRegistryFiltersUnavailable(t *testing.T) {
	clk := clock.NewMock()
	avail := &fakeProbe{available: true, data: sample.Sample{"a.x": 1}}
	unavail := &fakeProbe{available: false}

	r := NewRegistry(clk, []Probe{avail, unavail})
	assert.Len(t, r.Active(), 1)

	row := r.Collect()
	assert.Equal(t, 1, row["a.x"])
	assert.Contains(t, row, "timestamp")
}

func TestRegistryDropsNilReadsWithoutFailingTick(t *testing.T) {
	clk := clock.NewMock()
	flaky := &fakeProbe{available: true, data: nil}
	r := NewRegistry(clk, []Probe{flaky})

	row := r.Collect()
	assert.Len(t, row, 1) // only timestamp
}

func TestRegistryRecoversFromPanickingProbe(t *testing.T) {
	clk := clock.NewMock()
	r := NewRegistry(clk, []Probe{panicProbe{}})
	assert.NotPanics(t, func() { r.Collect() })
}

func TestRegistryHeaderFixedAfterFirstCollect(t *testing.T) {
	clk := clock.NewMock()
	p := &fakeProbe{available: true, data: sample.Sample{"a.x": 1}}
	r := NewRegistry(clk, []Probe{p})

	r.Collect()
	header1 := r.Header()

	p.data = sample.Sample{"a.x": 1, "a.y": 2}
	r.Collect()
	header2 := r.Header()

	assert.Equal(t, header1, header2)
}

func TestRegistryDeclaredHeaderAvailableBeforeFirstCollect(t *testing.T) {
	clk := clock.NewMock()
	p := &fakeProbe{available: true, data: sample.Sample{"a.x": 1}}
	r := NewRegistry(clk, []Probe{p})

	header := r.DeclaredHeader()

	assert.Equal(t, []string{"timestamp", "a.x"}, header)
}
