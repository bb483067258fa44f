package ingest_test

import (
	"context"
	"strings"
	"testing"

	"github.com/dkowalski/docrag"
	"github.com/dkowalski/docrag/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(minTokens, targetTokens, maxTokens int) docrag.Config {
	cfg := docrag.DefaultConfig()
	cfg.MinTokens = minTokens
	cfg.TargetTokens = targetTokens
	cfg.MaxTokens = maxTokens
	return cfg
}

func TestChunkID(t *testing.T) {
	t.Parallel()

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		url := "https://example.com/docs/module-3/lesson-2/intro"

		first := ingest.ChunkID(url, 1, 4)
		second := ingest.ChunkID(url, 1, 4)

		assert.Equal(t, first, second)
	})

	t.Run("embeds module and lesson tokens and padded index", func(t *testing.T) {
		t.Parallel()

		id := ingest.ChunkID("https://example.com/docs/module-3/lesson-2/intro", 0, 7)

		assert.True(t, strings.HasPrefix(id, "chunk_"))
		assert.True(t, strings.HasSuffix(id, "_mod3_less2_007"))
	})

	t.Run("differs across inputs", func(t *testing.T) {
		t.Parallel()

		a := ingest.ChunkID("https://example.com/a", 0, 0)
		b := ingest.ChunkID("https://example.com/b", 0, 0)
		c := ingest.ChunkID("https://example.com/a", 1, 0)

		assert.NotEqual(t, a, b)
		assert.NotEqual(t, a, c)
	})
}

func TestAssembler_ChunkPage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("small page produces a single chunk with all segments", func(t *testing.T) {
		t.Parallel()

		a := ingest.NewAssembler(testConfig(1, 50, 100), nil)
		page := &docrag.CrawledPage{
			URL:     "https://example.com/docs/intro",
			RawText: "Intro.\n\n## Section A\n\nContent here.",
		}

		chunks, err := a.ChunkPage(ctx, page, 0)

		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Contains(t, chunks[0].Text, "Intro.")
		assert.Contains(t, chunks[0].Text, "## Section A")
		assert.Contains(t, chunks[0].Text, "Content here.")
		assert.Equal(t, 1, chunks[0].TotalChunks)
		assert.Equal(t, 0, chunks[0].ChunkIndex)
	})

	t.Run("long unbroken text splits into multiple bounded chunks", func(t *testing.T) {
		t.Parallel()

		a := ingest.NewAssembler(testConfig(10, 50, 100), nil)
		page := &docrag.CrawledPage{
			URL:     "https://example.com/docs/long",
			RawText: strings.Repeat("A", 600),
		}

		chunks, err := a.ChunkPage(ctx, page, 0)

		require.NoError(t, err)
		assert.Greater(t, len(chunks), 1)
		for _, c := range chunks {
			assert.LessOrEqual(t, c.TokenCount, 100)
		}
	})

	t.Run("drops chunks below the minimum budget", func(t *testing.T) {
		t.Parallel()

		a := ingest.NewAssembler(testConfig(5, 8, 10), nil)
		page := &docrag.CrawledPage{
			URL:     "https://example.com/docs/tiny",
			RawText: "short",
		}

		chunks, err := a.ChunkPage(ctx, page, 0)

		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("prepends section context to chunk text", func(t *testing.T) {
		t.Parallel()

		a := ingest.NewAssembler(testConfig(1, 50, 100), nil)
		page := &docrag.CrawledPage{
			URL:     "https://example.com/docs/setup",
			Section: "Setup",
			RawText: "Install the binary and run it.",
		}

		chunks, err := a.ChunkPage(ctx, page, 0)

		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.True(t, strings.HasPrefix(chunks[0].Text, "## Setup\n\n"))
	})

	t.Run("section header never pushes chunks past the ceiling", func(t *testing.T) {
		t.Parallel()

		a := ingest.NewAssembler(testConfig(1, 50, 100), nil)
		page := &docrag.CrawledPage{
			URL:     "https://example.com/docs/install",
			Section: "Getting Started With The Installation",
			RawText: strings.Repeat("A", 400),
		}

		chunks, err := a.ChunkPage(ctx, page, 0)

		require.NoError(t, err)
		require.NotEmpty(t, chunks)
		for _, c := range chunks {
			assert.True(t, strings.HasPrefix(c.Text, "## Getting Started With The Installation\n\n"))
			assert.LessOrEqual(t, c.TokenCount, 100)
		}
	})

	t.Run("rejects page without URL", func(t *testing.T) {
		t.Parallel()

		a := ingest.NewAssembler(testConfig(1, 50, 100), nil)

		_, err := a.ChunkPage(ctx, &docrag.CrawledPage{RawText: "text"}, 0)

		assert.Equal(t, docrag.EINVALID, docrag.ErrorCode(err))
	})

	t.Run("sentence-splits oversized sections", func(t *testing.T) {
		t.Parallel()

		// Each sentence is ~15 tokens; the whole section is far above max.
		sentence := "This sentence has a reasonably stable token estimate size."
		section := strings.TrimSpace(strings.Repeat(sentence+" ", 20))

		a := ingest.NewAssembler(testConfig(1, 30, 40), nil)
		page := &docrag.CrawledPage{
			URL:     "https://example.com/docs/prose",
			RawText: section,
		}

		chunks, err := a.ChunkPage(ctx, page, 0)

		require.NoError(t, err)
		assert.Greater(t, len(chunks), 1)
		for _, c := range chunks {
			assert.LessOrEqual(t, c.TokenCount, 40)
		}
	})
}
