package sample

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSampleSeedsTimestamp(t *testing.T) {
	s := NewSample(42)
	assert.Equal(t, int64(42), s[TimestampKey])
	assert.Len(t, s, 1)
}

func TestMergeOverwritesOnCollision(t *testing.T) {
	s := NewSample(1)
	s.Merge(Sample{"a.x": 1})
	s.Merge(Sample{"a.x": 2, "a.y": 3})

	assert.Equal(t, 2, s["a.x"])
	assert.Equal(t, 3, s["a.y"])
}

func TestMergeIsNoopOnEmptyOther(t *testing.T) {
	s := NewSample(1)
	s.Merge(nil)
	assert.Len(t, s, 1)
}

func TestKeysReturnsEveryColumn(t *testing.T) {
	s := Sample{TimestampKey: 1, "a.x": 1, "a.y": 2}
	keys := s.Keys()
	sort.Strings(keys)
	assert.Equal(t, []string{"a.x", "a.y", TimestampKey}, keys)
}
