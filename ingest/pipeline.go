package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dkowalski/docrag"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Pipeline orchestrates an ingestion run: pages are chunked, deduplicated
// across the whole run, embedded in batches, and upserted into the vector
// store. Phases run sequentially; within the embed/store phase, batches may
// run on a bounded worker pool since each batch is independent.
type Pipeline struct {
	Assembler  *Assembler
	Dedup      *Deduplicator
	Embedder   docrag.Embedder
	Store      docrag.VectorStore
	Collection string
	Config     docrag.Config

	// Limiter paces batch submissions to respect provider quotas. Optional.
	Limiter *rate.Limiter

	// Concurrency bounds the number of in-flight batches. Defaults to 1.
	Concurrency int
}

// NewPipeline wires a Pipeline from its collaborators using cfg for the
// chunking, dedup, and batching settings.
func NewPipeline(cfg docrag.Config, counter docrag.TokenCounter, embedder docrag.Embedder, store docrag.VectorStore, collection string) *Pipeline {
	return &Pipeline{
		Assembler:  NewAssembler(cfg, counter),
		Dedup:      NewDeduplicator(cfg.SimilarityThreshold),
		Embedder:   embedder,
		Store:      store,
		Collection: collection,
		Config:     cfg,
	}
}

// Ingest runs the full ingestion pipeline over the given pages.
func (p *Pipeline) Ingest(ctx context.Context, pages []*docrag.CrawledPage) (*docrag.IngestResult, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}

	// Chunk all pages in crawl order.
	var chunks []docrag.TextChunk
	for i, page := range pages {
		pageChunks, err := p.Assembler.ChunkPage(ctx, page, i)
		if err != nil {
			return nil, fmt.Errorf("chunking page %q: %w", page.URL, err)
		}
		chunks = append(chunks, pageChunks...)
	}

	// Deduplicate across the whole run, not per page.
	deduped := p.Dedup.Deduplicate(chunks)

	result := &docrag.IngestResult{
		ChunksCreated:      len(chunks),
		ChunksDeduplicated: len(chunks) - len(deduped),
	}

	if len(deduped) == 0 {
		return result, nil
	}

	if _, err := p.Store.CreateCollection(ctx, p.Collection, p.Config.EmbeddingDimension, docrag.MetricCosine); err != nil {
		return nil, fmt.Errorf("creating collection %q: %w", p.Collection, err)
	}

	stored, err := p.embedAndStore(ctx, deduped)
	if err != nil {
		return nil, err
	}
	result.EmbeddingsStored = stored

	return result, nil
}

// embedAndStore embeds deduplicated chunks in batches and upserts the
// resulting records. Batches are independent; a failure in one cancels the
// remaining batches and surfaces the failing batch index.
func (p *Pipeline) embedAndStore(ctx context.Context, chunks []docrag.TextChunk) (int, error) {
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var mu sync.Mutex
	stored := 0

	batchSize := p.Config.BatchSize
	for start := 0; start < len(chunks); start += batchSize {
		end := min(start+batchSize, len(chunks))
		batch := chunks[start:end]
		batchIdx := start / batchSize

		g.Go(func() error {
			if p.Limiter != nil {
				if err := p.Limiter.Wait(ctx); err != nil {
					return err
				}
			}

			records, err := p.embedBatch(ctx, batch)
			if err != nil {
				return fmt.Errorf("batch %d: %w", batchIdx, err)
			}

			if err := p.Store.Upsert(ctx, p.Collection, records); err != nil {
				return fmt.Errorf("batch %d: storing vectors: %w", batchIdx, err)
			}

			mu.Lock()
			stored += len(records)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return stored, nil
}

// embedBatch embeds one batch of chunks and validates the dimension
// contract before building vector records.
func (p *Pipeline) embedBatch(ctx context.Context, batch []docrag.TextChunk) ([]docrag.VectorRecord, error) {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Text
	}

	vectors, err := p.Embedder.Embed(ctx, texts, docrag.InputDocument)
	if err != nil {
		return nil, fmt.Errorf("generating embeddings: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, docrag.Errorf(docrag.EINTERNAL, "embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}

	records := make([]docrag.VectorRecord, len(batch))
	for i, vec := range vectors {
		if len(vec) != p.Config.EmbeddingDimension {
			return nil, docrag.Errorf(docrag.EDIMENSION, "vector length %d does not match configured dimension %d", len(vec), p.Config.EmbeddingDimension)
		}
		records[i] = docrag.VectorRecord{
			// Deterministic UUID per chunk id keeps re-ingestion idempotent.
			ID:     uuid.NewSHA1(uuid.NameSpaceURL, []byte(batch[i].ChunkID)).String(),
			Vector: vec,
			Payload: docrag.RecordPayload{
				ChunkID:    batch[i].ChunkID,
				SourceURL:  batch[i].SourceURL,
				Module:     batch[i].Module,
				Section:    batch[i].Section,
				Text:       batch[i].Text,
				TokenCount: batch[i].TokenCount,
				CreatedAt:  batch[i].CreatedAt.Format(time.RFC3339),
			},
		}
	}
	return records, nil
}
