package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/kawaragi/meguri/internal/model"
)

// NewProvider creates an LLM provider from configuration. An empty
// provider name returns (nil, nil): the brief is simply disabled.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "ollama":
		return NewOllamaProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// Briefer turns an assembled curation result into a reviewer brief
type Briefer struct {
	provider Provider
	config   Config
}

// NewBriefer creates a briefer; returns an error when the configured
// provider cannot be constructed
func NewBriefer(config Config) (*Briefer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("no LLM provider configured")
	}
	return &Briefer{provider: provider, config: config}, nil
}

// Generate produces the brief for a result. Any failure is returned to
// the caller to log as a warning; it must never fail the curation run.
func (b *Briefer) Generate(ctx context.Context, result *model.CurationResult) (*model.ReviewerBrief, error) {
	resp, err := b.provider.Brief(ctx, BriefRequest{
		Result:    result,
		Model:     b.config.Model,
		MaxTokens: b.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate brief: %w", err)
	}

	brief := &model.ReviewerBrief{
		Enabled:  true,
		Provider: b.provider.Name(),
		Model:    resp.Model,
		BriefMD:  resp.Brief,
	}
	if resp.Brief == "" {
		brief.Warnings = append(brief.Warnings, "provider returned an empty brief")
	}
	return brief, nil
}
