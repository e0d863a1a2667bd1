package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anirudha4/bud.oneapp.studio/internal/config"
)

func TestNewClientUnsupportedProvider(t *testing.T) {
	_, _, err := NewClient(context.Background(), config.LLMConfig{Provider: "mystery"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported llm provider")
}

func TestNewClientOpenAI(t *testing.T) {
	client, embedder, err := NewClient(context.Background(), config.LLMConfig{
		Provider: "openai",
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.NotNil(t, embedder)
}

func TestNewClientClaudeHasNoEmbedder(t *testing.T) {
	client, embedder, err := NewClient(context.Background(), config.LLMConfig{
		Provider: "claude",
		Model:    "claude-sonnet-4-20250514",
		APIKey:   "test-key",
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.Nil(t, embedder)
}

func TestNewClientOllamaRoutesThroughOpenAI(t *testing.T) {
	client, embedder, err := NewClient(context.Background(), config.LLMConfig{
		Provider: "ollama",
		Model:    "llama3",
	})
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.NotNil(t, embedder)
	assert.IsType(t, &OpenAIClient{}, client)
}

func TestNewClientProviderCaseInsensitive(t *testing.T) {
	_, _, err := NewClient(context.Background(), config.LLMConfig{
		Provider: "OpenAI",
		APIKey:   "test-key",
	})
	assert.NoError(t, err)
}
