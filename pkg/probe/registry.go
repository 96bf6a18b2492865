package probe

import (
	"github.com/tommyippoz/arancino-monitor/pkg/clock"
	"github.com/tommyippoz/arancino-monitor/pkg/sample"
	"github.com/tommyippoz/arancino-monitor/pkg/util/log"
)

// Registry builds the catalog of candidate probes, filters by
// availability and exposes the active set, per spec.md §4.4.
type Registry struct {
	clk    *clock.Source
	active []Probe
	header []string
	sealed bool
}

// NewRegistry filters candidates by CanRead at construction time and
// retains survivors for the whole run.
func NewRegistry(clk *clock.Source, candidates []Probe) *Registry {
	active := make([]Probe, 0, len(candidates))
	for _, p := range candidates {
		if p.CanRead() {
			active = append(active, p)
			log.Infof("probe registry: %s is available", p.Describe())
		} else {
			log.Infof("probe registry: %s is unavailable, excluding for the whole run", p.Describe())
		}
	}
	return &Registry{clk: clk, active: active}
}

// Active returns the probes that survived the availability filter.
func (r *Registry) Active() []Probe {
	return append([]Probe(nil), r.active...)
}

// Collect produces {timestamp: now_ms()} union the read of every active
// probe. A probe returning nil contributes nothing to this tick; a probe
// that panics is treated as nil for the tick, never propagated, per
// spec.md §4.4 ("the registry never raises").
func (r *Registry) Collect() sample.Sample {
	row := sample.NewSample(r.clk.NowMs())
	for _, p := range r.active {
		row.Merge(r.safeRead(p))
	}
	if !r.sealed {
		r.header = headerFrom(row)
		r.sealed = true
	}
	return row
}

func (r *Registry) safeRead(p Probe) (result sample.Sample) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Warnf("probe registry: %s panicked during read: %v", p.Describe(), rec)
			result = nil
		}
	}()
	return p.Read()
}

// Header returns the fixed column order observed in the first Collect
// call: timestamp first, then every indicator key present in that first
// sample, in Go's (unspecified) map iteration order at that call. Returns
// nil before the first Collect.
func (r *Registry) Header() []string {
	return append([]string(nil), r.header...)
}

// DeclaredHeader returns timestamp plus every active probe's
// ListIndicators(), in probe order, without waiting for a Collect call.
// Every survivor of the availability filter already performed one
// successful read inside CanRead (spec.md §4.3's "declared indicator
// list, discovered on first successful read and cached"), so this is
// available immediately after NewRegistry returns. Callers that must fix
// a Sink's header before the first tick should use this instead of
// waiting on Header().
func (r *Registry) DeclaredHeader() []string {
	header := []string{sample.TimestampKey}
	for _, p := range r.active {
		header = append(header, p.ListIndicators()...)
	}
	return header
}

func headerFrom(row sample.Sample) []string {
	header := make([]string, 0, len(row))
	if _, ok := row[sample.TimestampKey]; ok {
		header = append(header, sample.TimestampKey)
	}
	for k := range row {
		if k == sample.TimestampKey {
			continue
		}
		header = append(header, k)
	}
	return header
}
