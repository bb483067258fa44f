package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/dkowalski/docrag"
	"github.com/dkowalski/docrag/mock"
	docragslog "github.com/dkowalski/docrag/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingEmbedder_Embed(t *testing.T) {
	t.Parallel()

	t.Run("logs batch size and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Embedder{
			EmbedFn: func(_ context.Context, texts []string, _ string) ([][]float32, error) {
				return make([][]float32, len(texts)), nil
			},
		}

		e := docragslog.NewLoggingEmbedder(inner, logger)
		vectors, err := e.Embed(context.Background(), []string{"a", "b"}, docrag.InputDocument)

		require.NoError(t, err)
		assert.Len(t, vectors, 2)
		output := buf.String()
		assert.Contains(t, output, "embedding batch")
		assert.Contains(t, output, "texts=2")
		assert.Contains(t, output, "input_type=search_document")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Embedder{
			EmbedFn: func(_ context.Context, _ []string, _ string) ([][]float32, error) {
				return nil, docrag.Errorf(docrag.EUNAVAILABLE, "rate limited")
			},
		}

		e := docragslog.NewLoggingEmbedder(inner, logger)
		_, err := e.Embed(context.Background(), []string{"a"}, docrag.InputQuery)

		require.Error(t, err)
		assert.Contains(t, buf.String(), "rate limited")
	})

	t.Run("passes the dimension through", func(t *testing.T) {
		t.Parallel()

		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		e := docragslog.NewLoggingEmbedder(&mock.Embedder{}, logger)

		assert.Equal(t, 1024, e.Dimension())
	})
}
