// Package ingest implements the ingestion pipeline: it normalizes crawled
// page text, splits it at semantic boundaries, assembles token-bounded
// chunks, removes duplicates, and embeds and stores the survivors.
package ingest

import (
	"regexp"
	"strings"
)

var (
	spaceRunRe   = regexp.MustCompile(` +`)
	blankLinesRe = regexp.MustCompile(`\n\n+`)

	// Docusaurus-style boilerplate lines that carry no documentation content.
	boilerplateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Edit\s+this\s+page.*?\n`),
		regexp.MustCompile(`(?i)(?:Previous|Next):.*?\n`),
		regexp.MustCompile(`(?i)On\s+this\s+page.*?\n`),
	}
)

// Normalize standardizes whitespace in page text: tabs become spaces,
// space runs collapse to one space, and consecutive blank lines collapse
// to a single paragraph break. Normalize is idempotent.
func Normalize(text string) string {
	// Expand tabs before collapsing so the result is stable under re-normalization.
	text = strings.ReplaceAll(text, "\t", " ")
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// StripBoilerplate removes common documentation-site boilerplate lines
// ("Edit this page" links, Previous/Next navigation, "On this page" menus).
func StripBoilerplate(text string) string {
	for _, re := range boilerplateRes {
		text = re.ReplaceAllString(text, "")
	}
	return text
}
