package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/dkowalski/docrag"
)

// Ensure LoggingVectorStore implements docrag.VectorStore.
var _ docrag.VectorStore = (*LoggingVectorStore)(nil)

// LoggingVectorStore wraps a VectorStore with operation logging.
type LoggingVectorStore struct {
	next   docrag.VectorStore
	logger *slog.Logger
}

// NewLoggingVectorStore creates a new LoggingVectorStore.
func NewLoggingVectorStore(next docrag.VectorStore, logger *slog.Logger) *LoggingVectorStore {
	return &LoggingVectorStore{next: next, logger: logger}
}

// CreateCollection delegates to the wrapped store and logs the operation.
func (s *LoggingVectorStore) CreateCollection(ctx context.Context, name string, dim int, metric string) (created bool, err error) {
	defer func(begin time.Time) {
		s.logger.Info("create collection",
			"collection", name,
			"dimension", dim,
			"metric", metric,
			"created", created,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateCollection(ctx, name, dim, metric)
}

// Upsert delegates to the wrapped store and logs the operation.
func (s *LoggingVectorStore) Upsert(ctx context.Context, collection string, records []docrag.VectorRecord) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("upsert vectors",
			"collection", collection,
			"records", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Upsert(ctx, collection, records)
}

// Search delegates to the wrapped store and logs the operation.
func (s *LoggingVectorStore) Search(ctx context.Context, collection string, query []float32, k int, minScore float32) (results []docrag.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("vector search",
			"collection", collection,
			"k", k,
			"min_score", minScore,
			"results", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, collection, query, k, minScore)
}

// CollectionInfo delegates to the wrapped store and logs the operation.
func (s *LoggingVectorStore) CollectionInfo(ctx context.Context, name string) (info *docrag.CollectionInfo, err error) {
	defer func(begin time.Time) {
		points := 0
		if info != nil {
			points = info.PointCount
		}
		s.logger.Info("collection info",
			"collection", name,
			"points", points,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CollectionInfo(ctx, name)
}
