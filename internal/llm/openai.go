package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIProvider implements Provider on the official OpenAI SDK.
type OpenAIProvider struct {
	client openai.Client
	model  string
	opts   Options
}

// OpenAIOption configures the OpenAI provider.
type OpenAIOption func(*OpenAIProvider)

// WithOpenAIModel sets the default model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(p *OpenAIProvider) { p.model = model }
}

// WithOpenAIOptions sets default request options.
func WithOpenAIOptions(opts Options) OpenAIOption {
	return func(p *OpenAIProvider) { p.opts = opts }
}

// NewOpenAIProvider creates an OpenAI-backed provider.
func NewOpenAIProvider(apiKey string, opts ...OpenAIOption) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	p := &OpenAIProvider{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  "gpt-4o-mini",
		opts:   Options{Temperature: 0.3, MaxTokens: 512},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

// Classify asks the model for a one-line sentiment call on the text.
func (p *OpenAIProvider) Classify(ctx context.Context, text string) (Classification, error) {
	if strings.TrimSpace(text) == "" {
		return Classification{}, ErrEmptyInput
	}
	raw, err := p.complete(ctx, classifySystemPrompt, text, 16)
	if err != nil {
		return Classification{}, err
	}
	return parseClassification(raw), nil
}

// Summarize condenses the prompt into short prose.
func (p *OpenAIProvider) Summarize(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyInput
	}
	return p.complete(ctx, summarizeSystemPrompt, prompt, p.opts.MaxTokens)
}

func (p *OpenAIProvider) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(p.opts.Temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrProviderDown)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
