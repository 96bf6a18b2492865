// Package clock is the single monotonic-millisecond time source used by
// every other component in this module, wrapping benbjohnson/clock so
// injectors, the monitor loop and the campaign manager can all be driven
// by the same fake clock in tests.
package clock

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Source produces the current wall/mock time, in integer milliseconds.
// It is required to be monotonic "enough" for sub-second interval
// arithmetic on a single host; a steady clock is preferred but a jump is a
// quality degradation, not a correctness failure.
type Source struct {
	c clock.Clock
}

// New returns a Source backed by the real system clock.
func New() *Source {
	return &Source{c: clock.New()}
}

// NewMock returns a Source backed by a clock.Mock, for deterministic tests.
func NewMock() *Source {
	return &Source{c: clock.NewMock()}
}

// NowMs returns the current time in integer milliseconds.
func (s *Source) NowMs() int64 {
	return s.c.Now().UnixMilli()
}

// Sleep blocks for d, or returns immediately when d <= 0.
func (s *Source) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	s.c.Sleep(d)
}

// Underlying exposes the wrapped clock.Clock, for callers that need
// clock.Timer/clock.Ticker directly (e.g. HTTP injector workers honoring
// context cancellation alongside a duration timer).
func (s *Source) Underlying() clock.Clock {
	return s.c
}

// Mock type-asserts the wrapped clock down to *clock.Mock, for tests that
// need to advance it. Panics if this Source was not built with NewMock.
func (s *Source) Mock() *clock.Mock {
	return s.c.(*clock.Mock)
}
