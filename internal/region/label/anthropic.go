package label

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
)

// DefaultAnthropicModel is the model used when none is configured.
const DefaultAnthropicModel = anthropic.ModelClaude3_5HaikuLatest

// Anthropic generates labels with the Anthropic Messages API. The client
// reads ANTHROPIC_API_KEY from the environment unless overridden.
type Anthropic struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// AnthropicOption configures the Anthropic generator.
type AnthropicOption func(*Anthropic)

// WithAnthropicModel selects the model.
func WithAnthropicModel(m anthropic.Model) AnthropicOption {
	return func(a *Anthropic) {
		a.model = m
	}
}

// WithAnthropicClient supplies a preconfigured client.
func WithAnthropicClient(c anthropic.Client) AnthropicOption {
	return func(a *Anthropic) {
		a.client = c
	}
}

// NewAnthropic creates an Anthropic-backed generator.
func NewAnthropic(opts ...AnthropicOption) *Anthropic {
	a := &Anthropic{
		client:    anthropic.NewClient(),
		model:     DefaultAnthropicModel,
		maxTokens: 64,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Label asks the model for a short title for the text.
func (a *Anthropic) Label(ctx context.Context, text string) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt(text))),
		},
	})
	if err != nil {
		return "", err
	}
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return cleanLabel(block.Text), nil
		}
	}
	return "", errors.New("anthropic: empty completion")
}
