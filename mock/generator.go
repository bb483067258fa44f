package mock

import (
	"context"

	"github.com/dkowalski/docrag"
)

var _ docrag.Generator = (*Generator)(nil)

// Generator is a mock implementation of docrag.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, question string, context string) (string, error)
}

func (g *Generator) Generate(ctx context.Context, question string, contextText string) (string, error) {
	return g.GenerateFn(ctx, question, contextText)
}
