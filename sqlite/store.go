package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"math"
	"sort"
	"time"

	"github.com/dkowalski/docrag"
)

// Compile-time interface verification.
var _ docrag.VectorStore = (*VectorStore)(nil)

// VectorStore implements docrag.VectorStore using SQLite. Similarity search
// is a brute-force scan over the collection's points, which is fine for the
// corpus sizes a single documentation site produces.
type VectorStore struct {
	db *DB
}

// NewVectorStore creates a new VectorStore.
func NewVectorStore(db *DB) *VectorStore {
	return &VectorStore{db: db}
}

// CreateCollection creates a collection if it does not exist. It reports
// whether the collection was created. Re-creating an existing collection with
// the same dimension and metric is a no-op; differing parameters are a
// conflict.
func (s *VectorStore) CreateCollection(ctx context.Context, name string, dimension int, metric string) (bool, error) {
	if name == "" {
		return false, docrag.Errorf(docrag.EINVALID, "collection name required")
	}
	if dimension <= 0 {
		return false, docrag.Errorf(docrag.EINVALID, "dimension must be positive")
	}
	if metric != docrag.MetricCosine {
		return false, docrag.Errorf(docrag.EINVALID, "unsupported metric %q", metric)
	}

	var existingDim int
	var existingMetric string
	err := s.db.QueryRowContext(ctx, `
		SELECT dimension, metric FROM collections WHERE name = ?
	`, name).Scan(&existingDim, &existingMetric)

	switch {
	case err == sql.ErrNoRows:
		// fall through to create
	case err != nil:
		return false, err
	default:
		if existingDim != dimension || existingMetric != metric {
			return false, docrag.Errorf(docrag.ECONFLICT, "collection %q exists with dimension %d and metric %q", name, existingDim, existingMetric)
		}
		return false, nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO collections (name, dimension, metric, created_at)
		VALUES (?, ?, ?, ?)
	`, name, dimension, metric, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return false, err
	}
	return true, nil
}

// Upsert inserts or replaces vector records by ID.
func (s *VectorStore) Upsert(ctx context.Context, collection string, records []docrag.VectorRecord) error {
	dimension, _, err := s.collectionParams(ctx, collection)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if rec.ID == "" {
			return docrag.Errorf(docrag.EINVALID, "record ID required")
		}
		if len(rec.Vector) != dimension {
			return docrag.Errorf(docrag.EDIMENSION, "vector length %d does not match collection dimension %d", len(rec.Vector), dimension)
		}

		_, err := s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO points (collection, id, vector, chunk_id, source_url, module, section, text, token_count, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, collection, rec.ID, encodeVector(rec.Vector), rec.Payload.ChunkID, rec.Payload.SourceURL,
			rec.Payload.Module, rec.Payload.Section, rec.Payload.Text, rec.Payload.TokenCount, rec.Payload.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

// Search returns up to k records most similar to the query vector, best
// first, keeping only scores at or above minScore.
func (s *VectorStore) Search(ctx context.Context, collection string, query []float32, k int, minScore float32) ([]docrag.SearchResult, error) {
	if k <= 0 {
		return nil, docrag.Errorf(docrag.EINVALID, "k must be positive")
	}

	dimension, _, err := s.collectionParams(ctx, collection)
	if err != nil {
		return nil, err
	}
	if len(query) != dimension {
		return nil, docrag.Errorf(docrag.EDIMENSION, "query length %d does not match collection dimension %d", len(query), dimension)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT vector, chunk_id, source_url, module, section, text
		FROM points
		WHERE collection = ?
	`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []docrag.SearchResult
	for rows.Next() {
		var res docrag.SearchResult
		var blob []byte

		if err := rows.Scan(&blob, &res.ChunkID, &res.SourceURL,
			&res.Module, &res.Section, &res.Text); err != nil {
			return nil, err
		}

		vector, err := decodeVector(blob)
		if err != nil {
			return nil, err
		}

		res.Score = float32(CosineSimilarity(query, vector))
		if minScore > 0 && res.Score < minScore {
			continue
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// CollectionInfo returns the collection's parameters and point count.
func (s *VectorStore) CollectionInfo(ctx context.Context, name string) (*docrag.CollectionInfo, error) {
	dimension, metric, err := s.collectionParams(ctx, name)
	if err != nil {
		return nil, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM points WHERE collection = ?
	`, name).Scan(&count); err != nil {
		return nil, err
	}

	return &docrag.CollectionInfo{
		Name:        name,
		Dimension:   dimension,
		Metric:      metric,
		PointCount:  count,
		VectorCount: count,
	}, nil
}

// collectionParams looks up a collection's dimension and metric.
func (s *VectorStore) collectionParams(ctx context.Context, name string) (int, string, error) {
	var dimension int
	var metric string
	err := s.db.QueryRowContext(ctx, `
		SELECT dimension, metric FROM collections WHERE name = ?
	`, name).Scan(&dimension, &metric)
	if err == sql.ErrNoRows {
		return 0, "", docrag.Errorf(docrag.ENOTFOUND, "collection %q not found", name)
	}
	if err != nil {
		return 0, "", err
	}
	return dimension, metric, nil
}

// CosineSimilarity computes the cosine similarity of two vectors. Vectors
// with zero magnitude score 0 against everything.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// encodeVector serializes a vector as little-endian float32 bytes.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// decodeVector deserializes a vector from little-endian float32 bytes.
func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, docrag.Errorf(docrag.EINTERNAL, "malformed vector blob of %d bytes", len(buf))
	}
	vector := make([]float32, len(buf)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return vector, nil
}
