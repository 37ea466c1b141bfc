// Package bloom tracks which extraction sources a run has already seen.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

const falsePositiveRate = 0.001

// SourceSet is an exact set of source names with a bloom filter in front
// of it. Most sources in a batch are new, and the filter answers those
// without touching the map.
type SourceSet struct {
	filter *bloom.BloomFilter
	exact  map[string]struct{}
	probes int
}

// NewSourceSet sizes the set for about n sources.
func NewSourceSet(n uint) *SourceSet {
	return &SourceSet{
		filter: bloom.NewWithEstimates(max(n, 1), falsePositiveRate),
		exact:  make(map[string]struct{}),
	}
}

// Add inserts source and reports whether it was already present.
func (s *SourceSet) Add(source string) (seen bool) {
	if s.filter.TestString(source) {
		s.probes++
		if _, ok := s.exact[source]; ok {
			return true
		}
	}
	s.filter.AddString(source)
	s.exact[source] = struct{}{}
	return false
}

// Len returns the number of distinct sources added.
func (s *SourceSet) Len() int { return len(s.exact) }

// Probes returns how many Add calls had to consult the exact set.
func (s *SourceSet) Probes() int { return s.probes }
