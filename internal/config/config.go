package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// NarrationPrompts are fmt templates for the per-tool narrative summaries.
// Empty fields fall back to the compiled-in defaults.
type NarrationPrompts struct {
	Search  string `toml:"search"`
	Summary string `toml:"summary"`
	Add     string `toml:"add"`
	Update  string `toml:"update"`
	Answer  string `toml:"answer"`
}

type Config struct {
	LLM       LLMConfig        `toml:"llm"`
	Redis     RedisConfig      `toml:"redis"`
	Narration NarrationPrompts `toml:"narration"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}
