package docrag

import "time"

// TextChunk represents a bounded-size unit of page text, the atomic object
// that gets embedded and indexed. Chunks are immutable after assembly.
type TextChunk struct {
	// Deterministic id derived from (sourceURL, pageIndex, chunkIndex).
	// Stable across re-runs for identical inputs.
	ChunkID string `json:"chunkId"`

	SourceURL   string    `json:"sourceUrl"`
	Module      string    `json:"module"`
	Section     string    `json:"section"`
	Text        string    `json:"text"`
	TokenCount  int       `json:"tokenCount"`
	ChunkIndex  int       `json:"chunkIndex"`
	TotalChunks int       `json:"totalChunks"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *TextChunk) Validate() error {
	if c.ChunkID == "" {
		return Errorf(EINVALID, "chunk ID required")
	}
	if c.SourceURL == "" {
		return Errorf(EINVALID, "chunk source URL required")
	}
	if c.Text == "" {
		return Errorf(EINVALID, "chunk text required")
	}
	return nil
}
