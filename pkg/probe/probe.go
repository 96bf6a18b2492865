// Package probe implements the polymorphic Probe contract from spec.md
// §4.3: sources that each produce a flat name->value map per sample, with
// availability probing, heterogeneous parsing and tag namespacing.
package probe

import (
	"sync"

	"github.com/tommyippoz/arancino-monitor/pkg/sample"
)

// Probe is the common contract every source implements. Declared
// indicators are discovered lazily on the first successful Read and
// cached thereafter (spec.md §9: "do not replicate the base-class-calls-
// subclass pattern" of the original construction-time probe).
type Probe interface {
	// Describe returns a short human label, typically including the
	// current indicator count.
	Describe() string
	// CanRead reports whether a probing read succeeds right now. Called
	// once at registry construction time to decide availability.
	CanRead() bool
	// Read returns this tick's indicators, already tag-prefixed, or nil on
	// a transient failure. A nil return drops this probe's contribution
	// for the current tick only; the probe remains eligible for the next.
	Read() sample.Sample
	// ListIndicators returns the declared indicator set, fixed on first
	// successful Read.
	ListIndicators() []string
}

// base centralizes the lazy indicator-discovery-and-cache behavior shared
// by every variant, so each variant only has to call recordIndicators from
// its Read.
type base struct {
	mu         sync.Mutex
	indicators []string
	cached     bool
}

// recordIndicators caches the declared set the first time a Read succeeds.
// Later calls are no-ops even if a subsequent read returns a different
// key set (spec.md §3 invariant (c): the header is fixed from the first
// sample).
func (b *base) recordIndicators(s sample.Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cached {
		return
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	b.indicators = keys
	b.cached = true
}

func (b *base) listIndicators() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.indicators...)
}
