package docrag

// Source identifies a document that contributed to an answer.
type Source struct {
	URL     string  `json:"url"`
	Section string  `json:"section"`
	Score   float32 `json:"score"`
}

// QueryResult holds the outcome of a retrieval-augmented query.
type QueryResult struct {
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Sources    []Source `json:"sources"`
	ChunkCount int      `json:"chunkCount"`
}

// IngestResult summarizes an ingestion run.
type IngestResult struct {
	ChunksCreated      int `json:"chunksCreated"`
	ChunksDeduplicated int `json:"chunksDeduplicated"`
	EmbeddingsStored   int `json:"embeddingsStored"`
}
