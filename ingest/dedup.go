package ingest

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/dkowalski/docrag"
	"github.com/pmezard/go-difflib/difflib"
)

// Deduplicator removes exact and near-duplicate chunks across an entire
// ingestion run. Exact duplicates are detected by content hash; near
// duplicates by a matching-subsequence similarity ratio against every chunk
// already accepted. First occurrence wins and insertion order is preserved.
//
// Near-duplicate detection is O(n^2) in the number of surviving chunks,
// which is acceptable for corpora in the thousands.
type Deduplicator struct {
	// Threshold is the similarity ratio in [0,1] at or above which a
	// candidate is considered a near duplicate.
	Threshold float64
}

// NewDeduplicator creates a Deduplicator with the given similarity threshold.
func NewDeduplicator(threshold float64) *Deduplicator {
	return &Deduplicator{Threshold: threshold}
}

// Deduplicate returns the chunks that survive both dedup passes.
func (d *Deduplicator) Deduplicate(chunks []docrag.TextChunk) []docrag.TextChunk {
	seenHashes := make(map[uint64]bool, len(chunks))
	accepted := make([]docrag.TextChunk, 0, len(chunks))
	acceptedWords := make([][]string, 0, len(chunks))

	for _, chunk := range chunks {
		hash := xxhash.Sum64String(chunk.Text)
		if seenHashes[hash] {
			continue
		}
		seenHashes[hash] = true

		words := strings.Fields(chunk.Text)
		if d.isNearDuplicate(words, acceptedWords) {
			continue
		}

		accepted = append(accepted, chunk)
		acceptedWords = append(acceptedWords, words)
	}

	return accepted
}

// isNearDuplicate reports whether candidate matches any accepted chunk at or
// above the threshold.
func (d *Deduplicator) isNearDuplicate(candidate []string, accepted [][]string) bool {
	for _, existing := range accepted {
		ratio := difflib.NewMatcher(candidate, existing).Ratio()
		if ratio >= d.Threshold {
			return true
		}
	}
	return false
}
