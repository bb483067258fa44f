// Package mock provides function-field mock implementations of docrag
// interfaces for testing.
package mock

import (
	"context"

	"github.com/dkowalski/docrag"
)

var _ docrag.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of docrag.Embedder.
type Embedder struct {
	EmbedFn     func(ctx context.Context, texts []string, inputType string) ([][]float32, error)
	DimensionFn func() int
}

func (e *Embedder) Embed(ctx context.Context, texts []string, inputType string) ([][]float32, error) {
	return e.EmbedFn(ctx, texts, inputType)
}

func (e *Embedder) Dimension() int {
	if e.DimensionFn == nil {
		return 1024
	}
	return e.DimensionFn()
}
