package docrag

import "context"

// VectorRecord is the unit persisted in the vector store: an embedding
// vector together with the chunk payload it was generated from. The chunk
// fields are copied into the payload, not referenced.
type VectorRecord struct {
	ID      string        `json:"id"`
	Vector  []float32     `json:"vector"`
	Payload RecordPayload `json:"payload"`
}

// RecordPayload holds the chunk metadata stored alongside a vector.
// Consumers reading the store directly must tolerate absent optional
// fields (e.g. Section), which default to empty strings.
type RecordPayload struct {
	ChunkID    string `json:"chunkId"`
	SourceURL  string `json:"sourceUrl"`
	Module     string `json:"module"`
	Section    string `json:"section"`
	Text       string `json:"text"`
	TokenCount int    `json:"tokenCount"`
	CreatedAt  string `json:"createdAt"`
}

// SearchResult represents a single similarity search match.
// Results are created fresh per query and never persisted.
type SearchResult struct {
	ChunkID   string  `json:"chunkId"`
	Score     float32 `json:"score"` // cosine similarity, clamped to [0,1] by callers
	Text      string  `json:"text"`
	SourceURL string  `json:"sourceUrl"`
	Module    string  `json:"module"`
	Section   string  `json:"section"`
}

// CollectionInfo reports statistics about a vector collection.
type CollectionInfo struct {
	Name        string `json:"name"`
	PointCount  int    `json:"pointCount"`
	VectorCount int    `json:"vectorCount"`
	Dimension   int    `json:"dimension"`
	Metric      string `json:"metric"`
}

// Similarity metrics supported by vector collections.
const (
	MetricCosine = "cosine"
)

// VectorStore persists embedding vectors and performs similarity search.
// Implementations exclusively own read/write access to the underlying index.
type VectorStore interface {
	// CreateCollection creates a collection with the given vector dimension
	// and similarity metric if it does not exist. A pre-existing collection
	// is left untouched; created reports whether a new collection was made.
	CreateCollection(ctx context.Context, name string, dim int, metric string) (created bool, err error)

	// Upsert stores records in the collection. Upserting an existing id
	// replaces the prior vector and payload; it never creates a duplicate.
	Upsert(ctx context.Context, collection string, records []VectorRecord) error

	// Search returns the top-k records most similar to the query vector,
	// ordered by descending score. Results scoring below minScore are
	// excluded when minScore > 0.
	// Returns ENOTFOUND if the collection does not exist.
	Search(ctx context.Context, collection string, query []float32, k int, minScore float32) ([]SearchResult, error)

	// CollectionInfo reports point and vector counts for a collection.
	// Returns ENOTFOUND if the collection does not exist.
	CollectionInfo(ctx context.Context, name string) (*CollectionInfo, error)
}
