package label

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
)

// DefaultOpenAIModel is the model used when none is configured.
const DefaultOpenAIModel = openai.ChatModelGPT4oMini

// OpenAI generates labels with the OpenAI chat completions API. The
// client reads OPENAI_API_KEY from the environment unless overridden.
type OpenAI struct {
	client openai.Client
	model  openai.ChatModel
}

// OpenAIOption configures the OpenAI generator.
type OpenAIOption func(*OpenAI)

// WithOpenAIModel selects the model.
func WithOpenAIModel(m openai.ChatModel) OpenAIOption {
	return func(o *OpenAI) {
		o.model = m
	}
}

// WithOpenAIClient supplies a preconfigured client.
func WithOpenAIClient(c openai.Client) OpenAIOption {
	return func(o *OpenAI) {
		o.client = c
	}
}

// NewOpenAI creates an OpenAI-backed generator.
func NewOpenAI(opts ...OpenAIOption) *OpenAI {
	o := &OpenAI{
		client: openai.NewClient(),
		model:  DefaultOpenAIModel,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Label asks the model for a short title for the text.
func (o *OpenAI) Label(ctx context.Context, text string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt(text)),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("openai: empty completion")
	}
	return cleanLabel(resp.Choices[0].Message.Content), nil
}
