package docrag

import (
	"regexp"
	"strings"
)

// Heading represents a heading in a markdown document.
type Heading struct {
	Level int    `json:"level"`
	Title string `json:"title"`
}

var headingRe = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
var fenceBlockRe = regexp.MustCompile("(?s)```.*?```")

// ExtractHeadings parses markdown and returns all headings (H1-H6).
// Headings inside fenced code blocks are ignored.
func ExtractHeadings(markdown string) []Heading {
	if markdown == "" {
		return nil
	}

	// Remove code blocks to avoid matching # in code
	cleaned := fenceBlockRe.ReplaceAllString(markdown, "")

	matches := headingRe.FindAllStringSubmatch(cleaned, -1)
	if len(matches) == 0 {
		return nil
	}

	headings := make([]Heading, 0, len(matches))
	for _, match := range matches {
		headings = append(headings, Heading{
			Level: len(match[1]),
			Title: strings.TrimSpace(match[2]),
		})
	}

	return headings
}

// FirstSection returns the title of the first H2 heading, the conventional
// section marker in documentation pages. Returns empty string if none.
func FirstSection(markdown string) string {
	for _, h := range ExtractHeadings(markdown) {
		if h.Level == 2 {
			return h.Title
		}
	}
	return ""
}
