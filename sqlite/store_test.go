package sqlite_test

import (
	"context"
	"testing"

	"github.com/dkowalski/docrag"
	"github.com/dkowalski/docrag/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id string, vector []float32, text string) docrag.VectorRecord {
	return docrag.VectorRecord{
		ID:     id,
		Vector: vector,
		Payload: docrag.RecordPayload{
			ChunkID:   "chunk-" + id,
			SourceURL: "https://example.com/" + id,
			Text:      text,
		},
	}
}

func TestVectorStore_CreateCollection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates a new collection", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewVectorStore(MustOpenDB(t))

		created, err := s.CreateCollection(ctx, "docs", 4, docrag.MetricCosine)

		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("is idempotent for matching parameters", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewVectorStore(MustOpenDB(t))

		_, err := s.CreateCollection(ctx, "docs", 4, docrag.MetricCosine)
		require.NoError(t, err)

		created, err := s.CreateCollection(ctx, "docs", 4, docrag.MetricCosine)

		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("conflicts on differing dimension", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewVectorStore(MustOpenDB(t))

		_, err := s.CreateCollection(ctx, "docs", 4, docrag.MetricCosine)
		require.NoError(t, err)

		_, err = s.CreateCollection(ctx, "docs", 8, docrag.MetricCosine)

		assert.Equal(t, docrag.ECONFLICT, docrag.ErrorCode(err))
	})

	t.Run("rejects invalid parameters", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewVectorStore(MustOpenDB(t))

		_, err := s.CreateCollection(ctx, "", 4, docrag.MetricCosine)
		assert.Equal(t, docrag.EINVALID, docrag.ErrorCode(err))

		_, err = s.CreateCollection(ctx, "docs", 0, docrag.MetricCosine)
		assert.Equal(t, docrag.EINVALID, docrag.ErrorCode(err))

		_, err = s.CreateCollection(ctx, "docs", 4, "euclidean")
		assert.Equal(t, docrag.EINVALID, docrag.ErrorCode(err))
	})
}

func TestVectorStore_Upsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("stores and replaces by id", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewVectorStore(MustOpenDB(t))
		_, err := s.CreateCollection(ctx, "docs", 4, docrag.MetricCosine)
		require.NoError(t, err)

		err = s.Upsert(ctx, "docs", []docrag.VectorRecord{
			record("r1", []float32{1, 0, 0, 0}, "original"),
		})
		require.NoError(t, err)

		// Same ID again: replaced, not duplicated.
		err = s.Upsert(ctx, "docs", []docrag.VectorRecord{
			record("r1", []float32{0, 1, 0, 0}, "replaced"),
		})
		require.NoError(t, err)

		info, err := s.CollectionInfo(ctx, "docs")
		require.NoError(t, err)
		assert.Equal(t, 1, info.PointCount)

		results, err := s.Search(ctx, "docs", []float32{0, 1, 0, 0}, 1, 0)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "replaced", results[0].Text)
	})

	t.Run("rejects vectors of the wrong dimension", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewVectorStore(MustOpenDB(t))
		_, err := s.CreateCollection(ctx, "docs", 4, docrag.MetricCosine)
		require.NoError(t, err)

		err = s.Upsert(ctx, "docs", []docrag.VectorRecord{
			record("r1", []float32{1, 0}, "short"),
		})

		assert.Equal(t, docrag.EDIMENSION, docrag.ErrorCode(err))
	})

	t.Run("requires an existing collection", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewVectorStore(MustOpenDB(t))

		err := s.Upsert(ctx, "missing", []docrag.VectorRecord{
			record("r1", []float32{1, 0, 0, 0}, "text"),
		})

		assert.Equal(t, docrag.ENOTFOUND, docrag.ErrorCode(err))
	})
}

func TestVectorStore_Search(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	seed := func(t *testing.T) *sqlite.VectorStore {
		t.Helper()

		s := sqlite.NewVectorStore(MustOpenDB(t))
		_, err := s.CreateCollection(ctx, "docs", 4, docrag.MetricCosine)
		require.NoError(t, err)

		err = s.Upsert(ctx, "docs", []docrag.VectorRecord{
			record("exact", []float32{1, 0, 0, 0}, "exact match"),
			record("close", []float32{0.9, 0.1, 0, 0}, "close match"),
			record("far", []float32{0, 0, 1, 0}, "orthogonal"),
		})
		require.NoError(t, err)
		return s
	}

	t.Run("orders by descending similarity", func(t *testing.T) {
		t.Parallel()

		s := seed(t)

		results, err := s.Search(ctx, "docs", []float32{1, 0, 0, 0}, 3, 0)

		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "exact match", results[0].Text)
		assert.Equal(t, "close match", results[1].Text)
		assert.InDelta(t, 1.0, results[0].Score, 0.0001)
		assert.Greater(t, results[0].Score, results[1].Score)
		assert.Greater(t, results[1].Score, results[2].Score)
	})

	t.Run("limits to k results", func(t *testing.T) {
		t.Parallel()

		s := seed(t)

		results, err := s.Search(ctx, "docs", []float32{1, 0, 0, 0}, 2, 0)

		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("excludes results below the score threshold", func(t *testing.T) {
		t.Parallel()

		s := seed(t)

		results, err := s.Search(ctx, "docs", []float32{1, 0, 0, 0}, 3, 0.5)

		require.NoError(t, err)
		require.Len(t, results, 2)
		for _, r := range results {
			assert.GreaterOrEqual(t, r.Score, float32(0.5))
		}
	})

	t.Run("returns not found for a missing collection", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewVectorStore(MustOpenDB(t))

		_, err := s.Search(ctx, "missing", []float32{1, 0, 0, 0}, 3, 0)

		assert.Equal(t, docrag.ENOTFOUND, docrag.ErrorCode(err))
	})

	t.Run("rejects query of the wrong dimension", func(t *testing.T) {
		t.Parallel()

		s := seed(t)

		_, err := s.Search(ctx, "docs", []float32{1, 0}, 3, 0)

		assert.Equal(t, docrag.EDIMENSION, docrag.ErrorCode(err))
	})
}

func TestVectorStore_CollectionInfo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("reports parameters and counts", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewVectorStore(MustOpenDB(t))
		_, err := s.CreateCollection(ctx, "docs", 4, docrag.MetricCosine)
		require.NoError(t, err)

		err = s.Upsert(ctx, "docs", []docrag.VectorRecord{
			record("r1", []float32{1, 0, 0, 0}, "a"),
			record("r2", []float32{0, 1, 0, 0}, "b"),
		})
		require.NoError(t, err)

		info, err := s.CollectionInfo(ctx, "docs")

		require.NoError(t, err)
		assert.Equal(t, "docs", info.Name)
		assert.Equal(t, 4, info.Dimension)
		assert.Equal(t, docrag.MetricCosine, info.Metric)
		assert.Equal(t, 2, info.PointCount)
		assert.Equal(t, 2, info.VectorCount)
	})

	t.Run("returns not found for a missing collection", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewVectorStore(MustOpenDB(t))

		_, err := s.CollectionInfo(ctx, "missing")

		assert.Equal(t, docrag.ENOTFOUND, docrag.ErrorCode(err))
	})
}

func TestCosineSimilarity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, sqlite.CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 0.0001)
	assert.InDelta(t, 0.0, sqlite.CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 0.0001)
	assert.InDelta(t, -1.0, sqlite.CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 0.0001)
	assert.Zero(t, sqlite.CosineSimilarity([]float32{0, 0}, []float32{1, 0}))
	assert.Zero(t, sqlite.CosineSimilarity([]float32{1}, []float32{1, 0}))
}
