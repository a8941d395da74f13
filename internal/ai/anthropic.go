package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicModel     = "claude-sonnet-4-5-20250929"
	defaultAnthropicMaxTokens = 1024
)

type anthropicMessages interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicProvider calls the Messages API.
type AnthropicProvider struct {
	msgs      anthropicMessages
	model     anthropic.Model
	maxTokens int
}

// NewAnthropic constructs an Anthropic-backed provider.
func NewAnthropic(opts Options) (*AnthropicProvider, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("anthropic: api key required")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := anthropic.NewClient(reqOpts...)

	model := anthropic.Model(defaultAnthropicModel)
	if m := strings.TrimSpace(opts.Model); m != "" {
		model = anthropic.Model(m)
	}
	tokens := opts.MaxTokens
	if tokens <= 0 {
		tokens = defaultAnthropicMaxTokens
	}

	return &AnthropicProvider{
		msgs:      &client.Messages,
		model:     model,
		maxTokens: tokens,
	}, nil
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

// Model returns the model name sent with each request.
func (p *AnthropicProvider) Model() string { return string(p.model) }

func (p *AnthropicProvider) Complete(ctx context.Context, prompt Prompt) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: maxTokens(prompt, p.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.User)),
		},
	}
	if system := strings.TrimSpace(prompt.System); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := p.msgs.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}
