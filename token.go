package docrag

import "context"

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// EstimateTokens approximates the token count of text as ceil(len/4).
// It is a deterministic approximation, not a precise count, and is used
// as a fallback when no model tokenizer is available.
func EstimateTokens(text string) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}

// ApproxTokenCounter implements TokenCounter using EstimateTokens.
type ApproxTokenCounter struct{}

// CountTokens returns the estimated token count. It never fails.
func (ApproxTokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	return EstimateTokens(text), nil
}
