// Package sample holds the Indicator/Sample data model shared by probes,
// the monitor loop and the sink. Values are produced transiently and never
// mutated in place.
package sample

// TimestampKey is the mandatory column every Sample carries, always first
// in column order.
const TimestampKey = "timestamp"

// Sample is an unordered mapping of indicator name to value, plus the
// mandatory timestamp field. Indicator names are already tag-prefixed by
// the probe that produced them (e.g. "virtual.used", "eth0.rec.bytes").
//
// Values are passed through as received (numbers or short string tokens)
// and rendered as strings only at the Sink boundary; numeric conversion is
// never forced here.
type Sample map[string]interface{}

// NewSample builds a Sample seeded with a timestamp, ready to be merged
// with probe output.
func NewSample(timestampMs int64) Sample {
	return Sample{TimestampKey: timestampMs}
}

// Merge copies every key/value from other into s, overwriting on
// collision. Per spec.md §4.3, probes prefix every key with their own
// unique tag so collisions should not occur by construction; when they do,
// the last writer wins here, matching the documented open question.
func (s Sample) Merge(other Sample) {
	for k, v := range other {
		s[k] = v
	}
}

// Keys returns the sample's column names in no particular order; callers
// that need a fixed column order (the Sink) must supply their own header.
func (s Sample) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}
