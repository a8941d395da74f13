// Package ai talks to hosted language models on behalf of the task service.
package ai

import (
	"context"
	"errors"
	"fmt"

	"task-app/internal/config"
	"task-app/internal/domain"
)

// Kind identifies which assistant feature a prompt serves.
type Kind string

const (
	KindSummary      Kind = "summary"
	KindPriorities   Kind = "priorities"
	KindAutocomplete Kind = "autocomplete"
)

// Prompt is a single-turn request. Remote providers only read System,
// User and MaxTokens; Kind, Tasks and Title let the offline provider
// answer without parsing prose.
type Prompt struct {
	Kind      Kind
	System    string
	User      string
	MaxTokens int

	Tasks []domain.Task
	Title string
}

// Provider is an LLM backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, p Prompt) (string, error)
}

// ErrEmptyResponse is returned when a provider answers with no text.
var ErrEmptyResponse = errors.New("empty response from model")

// Options configure a remote provider.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxTokens  int
	MaxRetries int
}

const defaultMaxRetries = 2

// ResolveProviderName maps "auto" to a concrete provider based on which
// API keys are configured.
func ResolveProviderName(cfg config.AIConfig) string {
	if cfg.Provider != "" && cfg.Provider != config.ProviderAuto {
		return cfg.Provider
	}
	switch {
	case cfg.OpenAIAPIKey != "":
		return config.ProviderOpenAI
	case cfg.AnthropicAPIKey != "":
		return config.ProviderAnthropic
	default:
		return config.ProviderOffline
	}
}

// New builds the provider selected by cfg.
func New(cfg config.AIConfig) (Provider, error) {
	name := ResolveProviderName(cfg)
	switch name {
	case config.ProviderOpenAI:
		p, err := NewOpenAI(Options{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			MaxTokens:  cfg.MaxTokens,
			MaxRetries: defaultMaxRetries,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.ProviderAnthropic:
		p, err := NewAnthropic(Options{
			APIKey:     cfg.AnthropicAPIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			MaxTokens:  cfg.MaxTokens,
			MaxRetries: defaultMaxRetries,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.ProviderOffline:
		return NewOffline(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", name)
	}
}

func maxTokens(p Prompt, fallback int) int64 {
	if p.MaxTokens > 0 {
		return int64(p.MaxTokens)
	}
	return int64(fallback)
}
