// Package session resolves the generation credential for the active user.
// The agent checks it before issuing any provider call.
package session

import (
	"context"
	"errors"
)

var ErrNoAPIKey = errors.New("no API key configured: set llm.api_key in the config or the LLM_API_KEY environment variable")

type Session struct {
	Name   string
	APIKey string
}

type Provider interface {
	Resolve(ctx context.Context) (*Session, error)
}

// Static serves a fixed session resolved once at startup from config/env.
type Static struct {
	Name   string
	APIKey string
}

func (s *Static) Resolve(ctx context.Context) (*Session, error) {
	if s == nil || s.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	return &Session{Name: s.Name, APIKey: s.APIKey}, nil
}
