// Package bloom provides exact URL membership backed by a Bloom filter.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
)

// Set records visited URLs. The Bloom filter answers most lookups for
// unseen URLs; filter positives are confirmed against xxhash-keyed buckets
// holding the URLs themselves, so membership is exact.
//
// Set is not safe for concurrent use.
type Set struct {
	filter  *bloom.BloomFilter
	buckets map[uint64][]string
	n       int
}

// NewSet creates a Set sized for n expected URLs with the given filter
// false positive rate.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{
		filter:  bloom.NewWithEstimates(n, fpRate),
		buckets: make(map[uint64][]string),
	}
}

// Add inserts url and reports whether it was not already present.
func (s *Set) Add(url string) bool {
	if s.Has(url) {
		return false
	}
	s.filter.AddString(url)
	key := xxhash.Sum64String(url)
	s.buckets[key] = append(s.buckets[key], url)
	s.n++
	return true
}

// Has reports whether url was added.
func (s *Set) Has(url string) bool {
	if !s.filter.TestString(url) {
		return false
	}
	for _, u := range s.buckets[xxhash.Sum64String(url)] {
		if u == url {
			return true
		}
	}
	return false
}

// Len returns the number of URLs in the set.
func (s *Set) Len() int {
	return s.n
}

// EstimatedCount returns the filter's approximation of the set size.
func (s *Set) EstimatedCount() uint {
	return uint(s.filter.ApproximatedSize())
}
