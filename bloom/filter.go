// Package bloom provides a probabilistic seen-set for crawl URL
// deduplication.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// SeenSet records URLs that have been visited or queued. Membership tests
// may report false positives (a URL wrongly considered seen, and therefore
// skipped) but never false negatives, which is the right trade-off for a
// crawler: a skipped page costs one page, a re-crawled page costs a fetch.
type SeenSet struct {
	filter *bloom.BloomFilter
}

// NewSeenSet creates a SeenSet sized for n expected URLs at the given
// false positive rate.
func NewSeenSet(n uint, fpRate float64) *SeenSet {
	return &SeenSet{filter: bloom.NewWithEstimates(n, fpRate)}
}

// Visit marks a URL as seen. It reports true if the URL was new, false if
// it was (probably) already present.
func (s *SeenSet) Visit(url string) bool {
	// TestOrAddString reports prior membership; Visit reports novelty.
	return !s.filter.TestOrAddString(url)
}

// Contains reports whether the URL has (probably) been seen.
func (s *SeenSet) Contains(url string) bool {
	return s.filter.TestString(url)
}

// ApproximateCount estimates how many distinct URLs have been added.
func (s *SeenSet) ApproximateCount() uint {
	return uint(s.filter.ApproximatedSize())
}
