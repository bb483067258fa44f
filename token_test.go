package docrag_test

import (
	"context"
	"strings"
	"testing"

	"github.com/dkowalski/docrag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateTokens(t *testing.T) {
	t.Parallel()

	t.Run("rounds up to the next token", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 0, docrag.EstimateTokens(""))
		assert.Equal(t, 1, docrag.EstimateTokens("a"))
		assert.Equal(t, 1, docrag.EstimateTokens("abcd"))
		assert.Equal(t, 2, docrag.EstimateTokens("abcde"))
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("A", 600)
		assert.Equal(t, docrag.EstimateTokens(text), docrag.EstimateTokens(text))
		assert.Equal(t, 150, docrag.EstimateTokens(text))
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		t.Parallel()

		// 4 multibyte runes estimate as one token
		assert.Equal(t, 1, docrag.EstimateTokens("日本語五"))
	})
}

func TestApproxTokenCounter(t *testing.T) {
	t.Parallel()

	n, err := docrag.ApproxTokenCounter{}.CountTokens(context.Background(), "abcdefgh")

	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
