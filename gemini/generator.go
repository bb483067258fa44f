package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dkowalski/docrag"
	"google.golang.org/genai"
)

const generationModel = "gemini-2.5-flash"

// Ensure Generator implements docrag.Generator at compile time.
var _ docrag.Generator = (*Generator)(nil)

// Generator implements docrag.Generator using Google Gemini.
type Generator struct {
	client *genai.Client

	// Timeout bounds each generation request. Defaults to
	// DefaultRequestTimeout.
	Timeout time.Duration
}

// NewGenerator creates a new Generator.
func NewGenerator(client *genai.Client) *Generator {
	return &Generator{client: client, Timeout: DefaultRequestTimeout}
}

// Generate answers a question grounded in the retrieved context.
func (g *Generator) Generate(ctx context.Context, question, contextText string) (string, error) {
	if question == "" {
		return "", docrag.Errorf(docrag.EINVALID, "question required")
	}
	if contextText == "" {
		return "", docrag.Errorf(docrag.EINVALID, "context required")
	}

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return "", docrag.Errorf(docrag.EUNAVAILABLE, "generation request aborted: %v", err)
	}

	prompt := BuildUserPrompt(contextText, question)
	config := BuildConfig()

	result, err := g.client.Models.GenerateContent(ctx, generationModel,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", docrag.Errorf(docrag.EUNAVAILABLE, "generation request failed: %v", err)
	}
	if result == nil {
		return "", docrag.Errorf(docrag.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for answer generation.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful assistant answering questions about software documentation. Answer based only on the context provided. If the answer is not in the context, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt with retrieved context ahead of the
// question.
func BuildUserPrompt(contextText, question string) string {
	var sb strings.Builder
	sb.WriteString("<context>\n")
	sb.WriteString(contextText)
	sb.WriteString("\n</context>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
