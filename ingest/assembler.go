package ingest

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dkowalski/docrag"
)

// sentenceEndRe matches a sentence terminator followed by whitespace.
// Split points fall after the terminator, preserving it with its sentence.
var sentenceEndRe = regexp.MustCompile(`[.!?]\s+`)

// Assembler packs page sections into chunks obeying the configured token
// budgets. MaxTokens is the binding hard ceiling; TargetTokens and
// OverlapTokens are carried in Config but the greedy algorithm packs only
// against the ceiling.
type Assembler struct {
	Config  docrag.Config
	Counter docrag.TokenCounter
}

// NewAssembler creates an Assembler. If counter is nil, the deterministic
// ceil(chars/4) approximation is used.
func NewAssembler(cfg docrag.Config, counter docrag.TokenCounter) *Assembler {
	if counter == nil {
		counter = docrag.ApproxTokenCounter{}
	}
	return &Assembler{Config: cfg, Counter: counter}
}

// countTokens counts tokens via the configured counter, falling back to
// the character estimate if the counter fails.
func (a *Assembler) countTokens(ctx context.Context, text string) int {
	n, err := a.Counter.CountTokens(ctx, text)
	if err != nil {
		return docrag.EstimateTokens(text)
	}
	return n
}

// ChunkPage normalizes a page, splits it at semantic boundaries, and packs
// the sections into chunks. pageIndex is the page's position within the
// ingestion run and participates in chunk id generation.
//
// Chunks below MinTokens are dropped, not merged into a neighbor. This can
// lose short trailing sections of a document.
func (a *Assembler) ChunkPage(ctx context.Context, page *docrag.CrawledPage, pageIndex int) ([]docrag.TextChunk, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	text := Normalize(page.RawText)
	text = StripBoilerplate(text)

	// The section header is prefixed to every chunk, so its token cost is
	// reserved out of the packing ceiling up front. The hard ceiling applies
	// to the final prefixed text, never the bare body.
	header := sectionHeader(page.Section)
	limit := a.Config.MaxTokens
	if header != "" {
		limit -= a.countTokens(ctx, header)
		if limit < 1 {
			limit = 1
		}
	}

	texts := a.chunkText(ctx, text, limit)

	// Prefix the header and enforce the [min, max] bounds on the text that
	// will actually be stored.
	prefixed := make([]string, 0, len(texts))
	counts := make([]int, 0, len(texts))
	for _, t := range texts {
		withContext := header + t
		n := a.countTokens(ctx, withContext)
		if n >= a.Config.MinTokens && n <= a.Config.MaxTokens {
			prefixed = append(prefixed, withContext)
			counts = append(counts, n)
		}
	}

	now := time.Now().UTC()
	chunks := make([]docrag.TextChunk, 0, len(prefixed))
	for i, t := range prefixed {
		chunks = append(chunks, docrag.TextChunk{
			ChunkID:     ChunkID(page.URL, pageIndex, i),
			SourceURL:   page.URL,
			Module:      page.Module,
			Section:     page.Section,
			Text:        t,
			TokenCount:  counts[i],
			ChunkIndex:  i,
			TotalChunks: len(prefixed),
			CreatedAt:   now,
		})
	}

	return chunks, nil
}

// chunkText packs sections greedily against the given token ceiling.
func (a *Assembler) chunkText(ctx context.Context, text string, limit int) []string {
	sections := SplitSections(text)

	var chunks []string
	var buf strings.Builder
	bufTokens := 0

	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			chunks = append(chunks, s)
		}
		buf.Reset()
		bufTokens = 0
	}

	for _, section := range sections {
		sectionTokens := a.countTokens(ctx, section)

		switch {
		case sectionTokens > limit:
			// Oversized section: flush the buffer, then pack sentences.
			flush()
			for _, sentence := range splitSentences(section) {
				// A single sentence can still exceed the ceiling (e.g. long
				// unbroken text); hard-split it before packing.
				for _, piece := range a.hardSplit(ctx, sentence, limit) {
					pieceTokens := a.countTokens(ctx, piece)
					if bufTokens+pieceTokens > limit {
						flush()
						buf.WriteString(piece)
						bufTokens = pieceTokens
					} else {
						if buf.Len() > 0 {
							buf.WriteString(" ")
						}
						buf.WriteString(piece)
						bufTokens += pieceTokens
					}
				}
			}

		case bufTokens+sectionTokens > limit:
			flush()
			buf.WriteString(section)
			bufTokens = sectionTokens

		default:
			if buf.Len() > 0 {
				buf.WriteString("\n\n")
			}
			buf.WriteString(section)
			bufTokens += sectionTokens
		}
	}
	flush()

	return chunks
}

// hardSplit cuts text into pieces that each fit within the given token
// ceiling. Pieces are cut at rune offsets sized from the character estimate
// and shrunk until the configured counter accepts them.
func (a *Assembler) hardSplit(ctx context.Context, text string, limit int) []string {
	if a.countTokens(ctx, text) <= limit {
		return []string{text}
	}

	runes := []rune(text)
	var pieces []string
	for len(runes) > 0 {
		size := min(limit*4, len(runes))
		for size > 1 && a.countTokens(ctx, string(runes[:size])) > limit {
			size--
		}
		pieces = append(pieces, string(runes[:size]))
		runes = runes[size:]
	}
	return pieces
}

// splitSentences splits text after sentence terminators (., !, ?) that are
// followed by whitespace.
func splitSentences(text string) []string {
	matches := sentenceEndRe.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}

	var sentences []string
	start := 0
	for _, m := range matches {
		// Cut after the terminator, skip the separating whitespace.
		sentences = append(sentences, text[start:m[0]+1])
		start = m[1]
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

// sectionHeader renders the heading prefix carried on every chunk of a
// page for better retrieval context, or "" when the page has no section.
func sectionHeader(section string) string {
	if section == "" {
		return ""
	}
	return fmt.Sprintf("## %s\n\n", section)
}

// ChunkID generates the deterministic chunk id for a (sourceURL, pageIndex,
// chunkIndex) triple: an 8-hex-char content hash combined with module and
// lesson tokens parsed from the URL path and a zero-padded chunk index.
func ChunkID(sourceURL string, pageIndex, chunkIndex int) string {
	h := xxhash.Sum64String(fmt.Sprintf("%s_%d_%d", sourceURL, pageIndex, chunkIndex))
	hash8 := fmt.Sprintf("%016x", h)[:8]

	var module, lesson string
	for _, part := range strings.Split(sourceURL, "/") {
		if strings.HasPrefix(part, "module-") {
			module = "mod" + strings.TrimPrefix(part, "module-")
		} else if strings.HasPrefix(part, "lesson-") {
			lesson = "less" + strings.TrimPrefix(part, "lesson-")
		}
	}

	return fmt.Sprintf("chunk_%s_%s_%s_%03d", hash8, module, lesson, chunkIndex)
}
