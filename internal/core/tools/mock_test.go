package tools

import (
	"context"
	"fmt"
)

// constEmbedder embeds every text to the same unit vector, so any query
// matches any indexed item with score 1.
type constEmbedder struct{}

func (constEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1}, nil
}

func (constEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

// failingLLM forces every narration onto its deterministic fallback.
type failingLLM struct{}

func (failingLLM) Generate(ctx context.Context, prompt, system string, maxTokens int) (string, error) {
	return "", fmt.Errorf("provider unavailable")
}
