// Package llm generates the optional reviewer brief. The brief is
// advisory prose for the human curator; it runs strictly after scoring
// and never affects any confidence value.
package llm

import (
	"context"

	"github.com/kawaragi/meguri/internal/model"
)

// Provider is one LLM backend
type Provider interface {
	// Name returns the provider name
	Name() string

	// Brief generates a reviewer brief for an assembled result
	Brief(ctx context.Context, req BriefRequest) (*BriefResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// BriefRequest is the input for brief generation
type BriefRequest struct {
	Result    *model.CurationResult
	Prompt    string // Optional custom prompt; empty uses the default
	Model     string
	MaxTokens int
}

// BriefResponse is the generated brief
type BriefResponse struct {
	Brief      string
	Model      string
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	Provider  string // "openai", "ollama", or "" (disabled)
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   int // Seconds
	MaxTokens int
}

// ConfigFromModel converts the engine config into provider config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout,
		MaxTokens: mc.MaxTokens,
	}
}
