package gemini

import (
	"context"
	"time"

	"github.com/dkowalski/docrag"
	"google.golang.org/genai"
)

const embeddingModel = "gemini-embedding-001"

// DefaultRequestTimeout bounds a single Gemini API call. A timed-out call
// surfaces as EUNAVAILABLE so the retry decorator treats it as transient.
const DefaultRequestTimeout = 30 * time.Second

// Ensure Embedder implements docrag.Embedder at compile time.
var _ docrag.Embedder = (*Embedder)(nil)

// Embedder implements docrag.Embedder using the Gemini embedding API.
type Embedder struct {
	client    *genai.Client
	dimension int

	// Timeout bounds each embedding request. Defaults to
	// DefaultRequestTimeout.
	Timeout time.Duration
}

// NewEmbedder creates a new Embedder producing vectors of the given dimension.
func NewEmbedder(client *genai.Client, dimension int) *Embedder {
	return &Embedder{client: client, dimension: dimension, Timeout: DefaultRequestTimeout}
}

// Embed generates one embedding per input text. The input type selects the
// task the vectors are optimized for: documents at ingestion time, queries at
// retrieval time.
func (e *Embedder) Embed(ctx context.Context, texts []string, inputType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, docrag.Errorf(docrag.EINVALID, "at least one text required")
	}

	taskType, err := TaskType(inputType)
	if err != nil {
		return nil, err
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, docrag.Errorf(docrag.EUNAVAILABLE, "embedding request aborted: %v", err)
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, "user")
	}

	dim := int32(e.dimension)
	result, err := e.client.Models.EmbedContent(ctx, embeddingModel, contents, &genai.EmbedContentConfig{
		TaskType:             taskType,
		OutputDimensionality: &dim,
	})
	if err != nil {
		return nil, docrag.Errorf(docrag.EUNAVAILABLE, "embedding request failed: %v", err)
	}
	if result == nil {
		return nil, docrag.Errorf(docrag.EINTERNAL, "gemini returned nil result")
	}
	if len(result.Embeddings) != len(texts) {
		return nil, docrag.Errorf(docrag.EINTERNAL, "gemini returned %d embeddings for %d texts", len(result.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		if len(emb.Values) != e.dimension {
			return nil, docrag.Errorf(docrag.EDIMENSION, "gemini returned dimension %d, expected %d", len(emb.Values), e.dimension)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// Dimension returns the configured embedding dimension.
func (e *Embedder) Dimension() int {
	return e.dimension
}

// TaskType maps an input type to the Gemini embedding task type.
func TaskType(inputType string) (string, error) {
	switch inputType {
	case docrag.InputDocument:
		return "RETRIEVAL_DOCUMENT", nil
	case docrag.InputQuery:
		return "RETRIEVAL_QUERY", nil
	default:
		return "", docrag.Errorf(docrag.EINVALID, "unknown input type %q", inputType)
	}
}
