package inject

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
	"github.com/tommyippoz/arancino-monitor/pkg/util/log"
)

// NamedInterval tags a completed Interval with the injector that produced
// it, per spec.md §3's "Injection interval" record.
type NamedInterval struct {
	Interval
	InjName string
}

// Manager schedules injectors over a fixed tick grid with a target error
// rate and a cooldown, per spec.md §4.6. It holds no process-isolation
// logic itself — pkg/campaign drives a Manager inside the isolated child
// process and is responsible for making that isolation real.
type Manager struct {
	clk        *clock.Source
	injectors  []Injector
	errorRate  float64
	cooldownMs int64
	durationMs int64
	rng        *rand.Rand

	mu       sync.Mutex
	active   Injector
	cooldown int64
}

// NewManager builds a Manager over injectors with the given target error
// rate ([0,1]) and cooldown.
func NewManager(clk *clock.Source, injectors []Injector, errorRate float64, cooldownMs, durationMs int64) *Manager {
	return &Manager{
		clk:        clk,
		injectors:  injectors,
		errorRate:  errorRate,
		cooldownMs: cooldownMs,
		durationMs: durationMs,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run executes the campaign scheduling algorithm from spec.md §4.6 for
// totalTicks ticks of tickMs each, blocking until the campaign finishes or
// ctx is cancelled.
func (m *Manager) Run(ctx context.Context, tickMs int64, totalTicks int) {
	if len(m.injectors) == 0 {
		log.Warnf("injection manager: no injectors configured, campaign is a no-op")
	}

	for tickIndex := 0; tickIndex < totalTicks; tickIndex++ {
		select {
		case <-ctx.Done():
			m.ForceClose()
			return
		default:
		}

		tickStart := m.clk.NowMs()
		m.maybeStartInjection(ctx, tickIndex, totalTicks, tickMs)

		elapsed := m.clk.NowMs() - tickStart
		sleepCtx(ctx, time.Duration(tickMs-elapsed)*time.Millisecond)

		m.mu.Lock()
		m.cooldown -= tickMs
		if m.cooldown < 0 {
			m.cooldown = 0
		}
		if m.cooldown < m.cooldownMs {
			m.active = nil
		}
		m.mu.Unlock()
	}
}

// maybeStartInjection implements one tick of spec.md §4.6 step 2: if
// eligible and the RNG gate passes, pick a non-running injector (with
// replacement, bounded iterations) and start it.
func (m *Manager) maybeStartInjection(ctx context.Context, tickIndex, totalTicks int, tickMs int64) {
	m.mu.Lock()
	eligible := m.active == nil && m.cooldown == 0 &&
		int64(totalTicks-tickIndex-1)*tickMs > m.durationMs
	m.mu.Unlock()
	if !eligible || len(m.injectors) == 0 {
		return
	}
	if m.rng.Float64() >= m.errorRate {
		return
	}

	// Per spec.md §9's open question: every injector running is
	// impossible under the mutual-exclusion invariant, but bound the
	// iteration count defensively rather than spin forever.
	const maxAttempts = 1000
	var chosen Injector
	for attempt := 0; attempt < maxAttempts; attempt++ {
		idx := m.rng.Intn(len(m.injectors))
		if !m.injectors[idx].Running() {
			chosen = m.injectors[idx]
			break
		}
	}
	if chosen == nil {
		log.Warnf("injection manager: could not find a non-running injector after %d attempts, skipping this tick", maxAttempts)
		return
	}

	log.Infof("injection manager: injecting with %s", chosen.Name())
	chosen.Inject(ctx)

	m.mu.Lock()
	m.active = chosen
	m.cooldown = m.durationMs + m.cooldownMs
	m.mu.Unlock()
}

// ForceClose requests the currently active injector to stop.
func (m *Manager) ForceClose() {
	m.mu.Lock()
	active := m.active
	m.mu.Unlock()
	if active != nil {
		active.ForceStop()
	}
}

// Collect blocks until no injector is running (force-closing in a loop if
// necessary), then returns the merged, name-tagged list of every
// completed interval across every injector, per spec.md §4.6.
func (m *Manager) Collect() []NamedInterval {
	for m.anyRunning() {
		log.Warnf("injection manager: an injector is still running after campaign end, forcing close")
		m.ForceClose()
		m.clk.Sleep(time.Second)
	}

	var out []NamedInterval
	for _, inj := range m.injectors {
		for _, iv := range inj.Intervals() {
			out = append(out, NamedInterval{Interval: iv, InjName: inj.Name()})
		}
	}
	return out
}

func (m *Manager) anyRunning() bool {
	for _, inj := range m.injectors {
		if inj.Running() {
			return true
		}
	}
	return false
}

// Injectors exposes the configured injector set, e.g. so the campaign
// runner can persist the injection log after Run returns.
func (m *Manager) Injectors() []Injector {
	return append([]Injector(nil), m.injectors...)
}
