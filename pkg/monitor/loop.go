// Package monitor drives the sampling cadence described in spec.md §4.7:
// pull a row from a probe registry every tick, buffer it, flush to a sink
// on a batching policy, and either stop or keep going on a deadline miss
// depending on the configured Policy.
package monitor

import (
	"fmt"
	"time"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
	"github.com/tommyippoz/arancino-monitor/pkg/sample"
	"github.com/tommyippoz/arancino-monitor/pkg/sink"
	"github.com/tommyippoz/arancino-monitor/pkg/util/log"
)

// Policy governs what happens when a tick overruns its budget.
type Policy int

const (
	// Lenient logs the deadline miss and continues to the next tick.
	Lenient Policy = iota
	// Strict logs the deadline miss and stops the loop after the
	// offending tick. This is the documented behavior for the
	// campaign-coupled entry point, per spec.md §4.7.
	Strict
)

// Registry is the subset of probe.Registry the loop depends on, kept
// narrow so tests can supply a fake without pulling in gopsutil/redis.
type Registry interface {
	Collect() sample.Sample
}

// Loop is the sampling cadence driver: MonitorLoop in spec.md §4.7.
type Loop struct {
	clk      *clock.Source
	registry Registry
	policy   Policy

	// DeadlineMisses counts ticks whose elapsed time reached or exceeded
	// tick_ms, surviving across Run for callers that want it afterward.
	DeadlineMisses int
}

// New builds a Loop over registry, sampling on clk's notion of time.
func New(clk *clock.Source, registry Registry, policy Policy) *Loop {
	return &Loop{clk: clk, registry: registry, policy: policy}
}

// Run executes tick_ms/total_ticks/batch_size exactly per spec.md §4.7's
// per-tick algorithm, flushing any remaining buffered rows on completion
// (including an early, strict-policy completion).
func (l *Loop) Run(tickMs int64, totalTicks int, batchSize int, s sink.Sink) error {
	if batchSize <= 0 {
		batchSize = 1
	}

	var buffer []sample.Sample
	for tickIndex := 0; tickIndex < totalTicks; tickIndex++ {
		t0 := l.clk.NowMs()

		row := l.registry.Collect()
		buffer = append(buffer, row)

		if len(buffer)%batchSize == batchSize-1 {
			if err := s.Append(buffer); err != nil {
				log.Warnf("monitor loop: batch flush failed, keeping %d rows buffered for the next flush: %v", len(buffer), err)
			} else {
				buffer = buffer[:0]
			}
		}

		elapsed := l.clk.NowMs() - t0
		if elapsed < tickMs {
			l.clk.Sleep(time.Duration(tickMs-elapsed) * time.Millisecond)
		} else {
			l.DeadlineMisses++
			log.Warnf("monitor loop: deadline miss on tick %d: elapsed %dms > tick_ms %dms", tickIndex, elapsed, tickMs)
			if l.policy == Strict {
				break
			}
		}
	}

	if len(buffer) > 0 {
		if err := s.Append(buffer); err != nil {
			return fmt.Errorf("monitor: final flush: %w", err)
		}
	}
	return nil
}
