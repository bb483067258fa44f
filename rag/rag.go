// Package rag orchestrates retrieval-augmented queries: embed the question,
// search the vector store, and generate an answer grounded in the retrieved
// chunks.
package rag

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/dkowalski/docrag"
)

// AnswerNoResults is returned when retrieval produces no usable chunks. The
// generator is never invoked in that case.
const AnswerNoResults = "No relevant information found in the knowledge base."

// maxContextChars bounds the context handed to the answer generator.
const maxContextChars = 1200

// Service answers questions against an ingested documentation corpus.
type Service struct {
	Embedder   docrag.Embedder
	Store      docrag.VectorStore
	Generator  docrag.Generator
	Collection string
	Config     docrag.Config
}

// NewService wires a Service from its collaborators.
func NewService(cfg docrag.Config, embedder docrag.Embedder, store docrag.VectorStore, generator docrag.Generator, collection string) *Service {
	return &Service{
		Embedder:   embedder,
		Store:      store,
		Generator:  generator,
		Collection: collection,
		Config:     cfg,
	}
}

// QueryParams tunes a single query. Zero values fall back to the configured
// defaults.
type QueryParams struct {
	// Context is optional free text prepended to the question before
	// embedding.
	Context string

	TopK int

	// ScoreThreshold filters out results scoring below it. Zero selects the
	// configured default; a negative value disables filtering entirely.
	ScoreThreshold float32
}

// Query answers a natural language question using the ingested corpus.
func (s *Service) Query(ctx context.Context, question string, params QueryParams) (*docrag.QueryResult, error) {
	if len(strings.TrimSpace(question)) < 2 {
		return nil, docrag.Errorf(docrag.EINVALID, "question too short")
	}

	topK := params.TopK
	if topK <= 0 {
		topK = s.Config.TopK
	}
	threshold := params.ScoreThreshold
	switch {
	case threshold == 0:
		threshold = s.Config.ScoreThreshold
	case threshold < 0:
		threshold = 0
	}

	// Optional context precedes the question in the search string.
	search := question
	if params.Context != "" {
		search = params.Context + "\n\nUser question: " + question
	}

	vectors, err := s.Embedder.Embed(ctx, []string{search}, docrag.InputQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}
	if len(vectors) != 1 {
		return nil, docrag.Errorf(docrag.EINTERNAL, "embedder returned %d vectors for one text", len(vectors))
	}

	results, err := s.Store.Search(ctx, s.Collection, vectors[0], topK, threshold)
	if err != nil {
		// A store that has never been ingested into is not an error; the
		// system stays queryable with zero results.
		if docrag.ErrorCode(err) == docrag.ENOTFOUND {
			results = nil
		} else {
			return nil, fmt.Errorf("searching vectors: %w", err)
		}
	}

	results = dedupeByText(results)
	for i := range results {
		results[i].Score = clampScore(results[i].Score)
	}

	if len(results) == 0 {
		return &docrag.QueryResult{
			Question: question,
			Answer:   AnswerNoResults,
		}, nil
	}

	answer, err := s.Generator.Generate(ctx, question, buildContext(results))
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &docrag.QueryResult{
		Question:   question,
		Answer:     answer,
		Sources:    collectSources(results),
		ChunkCount: len(results),
	}, nil
}

// dedupeByText drops results whose exact text has already been seen. Results
// arrive ordered by descending score, so the highest-scoring occurrence wins.
func dedupeByText(results []docrag.SearchResult) []docrag.SearchResult {
	seen := make(map[uint64]bool, len(results))
	deduped := results[:0]
	for _, res := range results {
		text := strings.TrimSpace(res.Text)
		if text == "" {
			continue
		}
		h := xxhash.Sum64String(text)
		if seen[h] {
			continue
		}
		seen[h] = true
		deduped = append(deduped, res)
	}
	return deduped
}

// clampScore forces a raw similarity score into [0,1].
func clampScore(score float32) float32 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// buildContext joins result texts and truncates to the generator's context
// budget without splitting a UTF-8 sequence.
func buildContext(results []docrag.SearchResult) string {
	texts := make([]string, len(results))
	for i, res := range results {
		texts[i] = res.Text
	}
	joined := strings.Join(texts, " ")
	if len(joined) <= maxContextChars {
		return joined
	}
	cut := maxContextChars
	for cut > 0 && !utf8.RuneStart(joined[cut]) {
		cut--
	}
	return joined[:cut]
}

// collectSources lists each contributing URL once, keeping the order and
// score of its best-ranked chunk.
func collectSources(results []docrag.SearchResult) []docrag.Source {
	seen := make(map[string]bool, len(results))
	var sources []docrag.Source
	for _, res := range results {
		if res.SourceURL == "" || seen[res.SourceURL] {
			continue
		}
		seen[res.SourceURL] = true
		sources = append(sources, docrag.Source{
			URL:     res.SourceURL,
			Section: res.Section,
			Score:   res.Score,
		})
	}
	return sources
}
