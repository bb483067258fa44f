package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/dkowalski/docrag"
	"github.com/dkowalski/docrag/mock"
	docragslog "github.com/dkowalski/docrag/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingVectorStore(t *testing.T) {
	t.Parallel()

	t.Run("logs search with result count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.VectorStore{
			SearchFn: func(_ context.Context, _ string, _ []float32, _ int, _ float32) ([]docrag.SearchResult, error) {
				return []docrag.SearchResult{{ChunkID: "c1"}}, nil
			},
		}

		s := docragslog.NewLoggingVectorStore(inner, logger)
		results, err := s.Search(context.Background(), "docs", []float32{1}, 5, 0.3)

		require.NoError(t, err)
		assert.Len(t, results, 1)
		output := buf.String()
		assert.Contains(t, output, "vector search")
		assert.Contains(t, output, "collection=docs")
		assert.Contains(t, output, "results=1")
	})

	t.Run("logs upsert record count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.VectorStore{
			UpsertFn: func(_ context.Context, _ string, _ []docrag.VectorRecord) error {
				return nil
			},
		}

		s := docragslog.NewLoggingVectorStore(inner, logger)
		err := s.Upsert(context.Background(), "docs", make([]docrag.VectorRecord, 3))

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "records=3")
	})

	t.Run("logs collection info point count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.VectorStore{
			CollectionInfoFn: func(_ context.Context, name string) (*docrag.CollectionInfo, error) {
				return &docrag.CollectionInfo{Name: name, PointCount: 7}, nil
			},
		}

		s := docragslog.NewLoggingVectorStore(inner, logger)
		info, err := s.CollectionInfo(context.Background(), "docs")

		require.NoError(t, err)
		assert.Equal(t, 7, info.PointCount)
		output := buf.String()
		assert.Contains(t, output, "collection info")
		assert.Contains(t, output, "points=7")
	})

	t.Run("logs collection creation outcome", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.VectorStore{
			CreateCollectionFn: func(_ context.Context, _ string, _ int, _ string) (bool, error) {
				return true, nil
			},
		}

		s := docragslog.NewLoggingVectorStore(inner, logger)
		created, err := s.CreateCollection(context.Background(), "docs", 1024, docrag.MetricCosine)

		require.NoError(t, err)
		assert.True(t, created)
		assert.Contains(t, buf.String(), "created=true")
	})
}
