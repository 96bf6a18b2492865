package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClockAdvancesOnlyOnAdd(t *testing.T) {
	s := NewMock()
	start := s.NowMs()

	s.Mock().Add(5 * time.Second)

	assert.Equal(t, start+5000, s.NowMs())
}

func TestSleepNonPositiveReturnsImmediately(t *testing.T) {
	s := NewMock()
	done := make(chan struct{})
	go func() {
		s.Sleep(0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Sleep(0) should return immediately without waiting on the mock clock")
	}
}

func TestRealClockProducesIncreasingTimestamps(t *testing.T) {
	s := New()
	a := s.NowMs()
	time.Sleep(time.Millisecond)
	b := s.NowMs()

	assert.GreaterOrEqual(t, b, a)
}
