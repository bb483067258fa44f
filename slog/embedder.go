// Package slog provides logging decorators for docrag services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/dkowalski/docrag"
)

// Ensure LoggingEmbedder implements docrag.Embedder.
var _ docrag.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder with operation logging.
type LoggingEmbedder struct {
	next   docrag.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next docrag.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// Embed delegates to the wrapped embedder and logs the operation.
func (e *LoggingEmbedder) Embed(ctx context.Context, texts []string, inputType string) (vectors [][]float32, err error) {
	defer func(begin time.Time) {
		e.logger.Info("embedding batch",
			"texts", len(texts),
			"input_type", inputType,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Embed(ctx, texts, inputType)
}

// Dimension delegates to the wrapped embedder.
func (e *LoggingEmbedder) Dimension() int {
	return e.next.Dimension()
}
