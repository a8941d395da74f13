package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultOpenAIMaxTokens = 1024
)

type openaiChatCompletions interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIProvider calls the chat completions API.
type OpenAIProvider struct {
	completions openaiChatCompletions
	model       string
	maxTokens   int
}

// NewOpenAI constructs an OpenAI-backed provider. BaseURL may point at any
// compatible endpoint.
func NewOpenAI(opts Options) (*OpenAIProvider, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai: api key required")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := openai.NewClient(reqOpts...)

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultOpenAIModel
	}
	tokens := opts.MaxTokens
	if tokens <= 0 {
		tokens = defaultOpenAIMaxTokens
	}

	return &OpenAIProvider{
		completions: &client.Chat.Completions,
		model:       model,
		maxTokens:   tokens,
	}, nil
}

func (p *OpenAIProvider) Name() string { return "openai" }

// Model returns the model name sent with each request.
func (p *OpenAIProvider) Model() string { return p.model }

func (p *OpenAIProvider) Complete(ctx context.Context, prompt Prompt) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if system := strings.TrimSpace(prompt.System); system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt.User))

	completion, err := p.completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               shared.ChatModel(p.model),
		MaxCompletionTokens: openai.Int(maxTokens(prompt, p.maxTokens)),
		Messages:            messages,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if completion == nil || len(completion.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
