package llm

import (
	"context"
)

// Client is a stateless single-shot completion call. system may be empty;
// maxTokens <= 0 leaves the provider default in place.
type Client interface {
	Generate(ctx context.Context, prompt, system string, maxTokens int) (string, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
