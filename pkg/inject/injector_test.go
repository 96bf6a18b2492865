package inject

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
)

func TestSpinInjectorCompletesAndRecordsOneInterval(t *testing.T) {
	clk := clock.New()
	s := NewSpinInjector(clk, 20)

	s.Inject(context.Background())
	require.Eventually(t, func() bool { return !s.Running() }, time.Second, time.Millisecond)

	intervals := s.Intervals()
	require.Len(t, intervals, 1)
	assert.LessOrEqual(t, intervals[0].Start, intervals[0].End)
}

func TestSpinInjectorForceStopEndsEarly(t *testing.T) {
	clk := clock.New()
	s := NewSpinInjector(clk, 10*time.Second.Milliseconds())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Inject(ctx)

	require.Eventually(t, func() bool { return s.Running() }, time.Second, time.Millisecond)
	start := clk.NowMs()
	s.ForceStop()

	require.Eventually(t, func() bool { return !s.Running() }, time.Second, time.Millisecond)
	intervals := s.Intervals()
	require.Len(t, intervals, 1)
	assert.Less(t, intervals[0].End-start, int64(1000))
}

func TestSpinInjectorNotRunningBeforeInject(t *testing.T) {
	clk := clock.New()
	s := NewSpinInjector(clk, 1000)
	assert.False(t, s.Running())
	assert.Empty(t, s.Intervals())
}
