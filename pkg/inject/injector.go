// Package inject implements the polymorphic Injector contract and the
// campaign scheduler described in spec.md §4.5/§4.6: bounded-duration
// synthetic faults driven by an independently-scheduled campaign, with
// mutual exclusion, cooldown and forced-termination semantics.
package inject

import (
	"context"
	"sync"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
)

// Interval is one completed injection, in monotonic milliseconds.
type Interval struct {
	Start int64
	End   int64
}

// Injector is the common fault-primitive contract. Inject starts the fault
// in an isolated worker and returns immediately; Running is true while the
// fault is in flight; ForceStop requests best-effort termination of all
// workers and closes the current interval at now; Intervals accumulates
// completed intervals; Name is a stable identifier encoding the variant
// and its parameters.
type Injector interface {
	Inject(ctx context.Context)
	Running() bool
	ForceStop()
	Intervals() []Interval
	Name() string
}

// base implements the idle -> running -> done(interval appended) -> idle
// state machine shared by every variant (spec.md §4.5), so each variant
// only has to supply its body via runBody or runBodyNoInterval.
type base struct {
	clk         *clock.Source
	durationMs  int64
	mu          sync.Mutex
	running     bool
	intervals   []Interval
	cancel      context.CancelFunc
}

func newBase(clk *clock.Source, durationMs int64) base {
	return base{clk: clk, durationMs: durationMs}
}

func (b *base) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

func (b *base) Intervals() []Interval {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Interval(nil), b.intervals...)
}

func (b *base) ForceStop() {
	b.mu.Lock()
	cancel := b.cancel
	b.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// runBody wraps a variant's body with the idle/running/done bookkeeping.
// body must itself honor ctx cancellation and return promptly. An interval
// is always recorded on completion; variants that may record none
// (Process-hang when its target is absent) use runBodyNoInterval instead.
func (b *base) runBody(parent context.Context, body func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(parent)

	b.mu.Lock()
	b.running = true
	b.cancel = cancel
	b.mu.Unlock()

	start := b.clk.NowMs()
	body(ctx)
	end := b.clk.NowMs()

	b.mu.Lock()
	b.intervals = append(b.intervals, Interval{Start: start, End: end})
	b.running = false
	b.cancel = nil
	b.mu.Unlock()

	cancel()
}

// runBodyNoInterval is like runBody but lets the variant decide whether an
// interval was actually produced (Process-hang: absent target records
// nothing).
func (b *base) runBodyNoInterval(parent context.Context, body func(ctx context.Context) *Interval) {
	ctx, cancel := context.WithCancel(parent)

	b.mu.Lock()
	b.running = true
	b.cancel = cancel
	b.mu.Unlock()

	iv := body(ctx)

	b.mu.Lock()
	if iv != nil {
		b.intervals = append(b.intervals, *iv)
	}
	b.running = false
	b.cancel = nil
	b.mu.Unlock()

	cancel()
}
