package gemini

import (
	"context"

	"github.com/dkowalski/docrag"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ docrag.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens locally using the Gemini tokenizer, so chunk
// assembly never makes network calls.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a TokenCounter for the given model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, docrag.Errorf(docrag.EINTERNAL, "loading tokenizer for %q: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens returns the token count for text under the configured model.
// Empty text counts as zero without invoking the tokenizer.
func (tc *TokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, "user")}, nil)
	if err != nil {
		return 0, docrag.Errorf(docrag.EINTERNAL, "counting tokens: %v", err)
	}
	return int(result.TotalTokens), nil
}
