package ingest

import (
	"regexp"
	"sort"
	"strings"
)

var (
	paragraphRe = regexp.MustCompile(`\n\n+`)
	headingRe   = regexp.MustCompile(`(?m)^#+\s`)
	fenceRe     = regexp.MustCompile("(?m)^```")
)

// findBoundaries returns the ascending, deduplicated character offsets of
// semantic boundaries in text: paragraph breaks, heading starts, and code
// fence pairs. Offset 0 and len(text) are always included as sentinels.
func findBoundaries(text string) []int {
	seen := map[int]bool{0: true, len(text): true}

	for _, m := range paragraphRe.FindAllStringIndex(text, -1) {
		seen[m[0]] = true
	}

	for _, m := range headingRe.FindAllStringIndex(text, -1) {
		seen[m[0]] = true
	}

	// Fence markers toggle an in-code-block flag. The opening marker starts
	// a boundary, the matching closing marker ends one. A document that ends
	// inside an unmatched fence is closed by the trailing sentinel.
	inCodeBlock := false
	for _, m := range fenceRe.FindAllStringIndex(text, -1) {
		if inCodeBlock {
			seen[m[1]] = true
		} else {
			seen[m[0]] = true
		}
		inCodeBlock = !inCodeBlock
	}

	boundaries := make([]int, 0, len(seen))
	for b := range seen {
		boundaries = append(boundaries, b)
	}
	sort.Ints(boundaries)
	return boundaries
}

// SplitSections splits text into ordered sections at semantic boundaries.
// Sections are trimmed; empty sections are dropped.
func SplitSections(text string) []string {
	boundaries := findBoundaries(text)

	var sections []string
	for i := 0; i < len(boundaries)-1; i++ {
		section := strings.TrimSpace(text[boundaries[i]:boundaries[i+1]])
		if section != "" {
			sections = append(sections, section)
		}
	}
	return sections
}
