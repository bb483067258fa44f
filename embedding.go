package docrag

import "context"

// Embedding input types, matching the retrieval task the vectors serve.
const (
	InputDocument = "search_document"
	InputQuery    = "search_query"
)

// Embedder converts texts into fixed-dimension embedding vectors.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	// Every returned vector has length Dimension(); implementations return
	// EDIMENSION if the provider disagrees with the configured dimension.
	// inputType is one of InputDocument or InputQuery.
	Embed(ctx context.Context, texts []string, inputType string) ([][]float32, error)

	// Dimension returns the embedding dimension this embedder produces.
	Dimension() int
}
