package main

import (
	"fmt"

	"github.com/dkowalski/docrag"
	"github.com/dkowalski/docrag/rag"
)

// Run executes the query command.
func (c *QueryCmd) Run(deps *Dependencies) error {
	result, err := deps.RAG.Query(deps.Ctx, c.Question, rag.QueryParams{
		Context:        c.Context,
		TopK:           c.TopK,
		ScoreThreshold: c.Threshold,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docrag.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, result.Answer)

	if len(result.Sources) > 0 {
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Sources:")
		for _, s := range result.Sources {
			if s.Section != "" {
				fmt.Fprintf(deps.Stdout, "  %.2f  %s (%s)\n", s.Score, s.URL, s.Section)
			} else {
				fmt.Fprintf(deps.Stdout, "  %.2f  %s\n", s.Score, s.URL)
			}
		}
	}

	return nil
}
