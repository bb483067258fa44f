package docrag

import "context"

// Generator produces a grounded answer from a question and a context string
// assembled from retrieved chunks. Implementations wrap an external LLM.
type Generator interface {
	Generate(ctx context.Context, question string, context string) (string, error)
}
