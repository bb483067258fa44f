package mock

import (
	"context"

	"github.com/dkowalski/docrag"
)

var _ docrag.VectorStore = (*VectorStore)(nil)

// VectorStore is a mock implementation of docrag.VectorStore.
type VectorStore struct {
	CreateCollectionFn func(ctx context.Context, name string, dim int, metric string) (bool, error)
	UpsertFn           func(ctx context.Context, collection string, records []docrag.VectorRecord) error
	SearchFn           func(ctx context.Context, collection string, query []float32, k int, minScore float32) ([]docrag.SearchResult, error)
	CollectionInfoFn   func(ctx context.Context, name string) (*docrag.CollectionInfo, error)
}

func (s *VectorStore) CreateCollection(ctx context.Context, name string, dim int, metric string) (bool, error) {
	return s.CreateCollectionFn(ctx, name, dim, metric)
}

func (s *VectorStore) Upsert(ctx context.Context, collection string, records []docrag.VectorRecord) error {
	return s.UpsertFn(ctx, collection, records)
}

func (s *VectorStore) Search(ctx context.Context, collection string, query []float32, k int, minScore float32) ([]docrag.SearchResult, error) {
	return s.SearchFn(ctx, collection, query, k, minScore)
}

func (s *VectorStore) CollectionInfo(ctx context.Context, name string) (*docrag.CollectionInfo, error) {
	return s.CollectionInfoFn(ctx, name)
}
