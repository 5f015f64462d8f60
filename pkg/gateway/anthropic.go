package gateway

import (
	"context"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

const providerAnthropic = "anthropic"

// AnthropicOptions configures the Messages API client.
type AnthropicOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Anthropic calls the Messages API through go-anthropic.
type Anthropic struct {
	client *anthropic.Client
	opts   AnthropicOptions
}

// NewAnthropic builds the client.
func NewAnthropic(opts AnthropicOptions) *Anthropic {
	var clientOpts []anthropic.ClientOption
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, anthropic.WithBaseURL(opts.BaseURL))
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1024
	}
	return &Anthropic{client: anthropic.NewClient(opts.APIKey, clientOpts...), opts: opts}
}

// Complete sends the system prompt and a single user message.
func (g *Anthropic) Complete(ctx context.Context, userText, systemPrompt string) (string, error) {
	temperature := float32(g.opts.Temperature)
	req := anthropic.MessagesRequest{
		Model:       anthropic.Model(g.opts.Model),
		System:      systemPrompt,
		MaxTokens:   g.opts.MaxTokens,
		Temperature: &temperature,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(userText),
		},
	}

	resp, err := g.client.CreateMessages(ctx, req)
	if err != nil {
		return "", wrap(providerAnthropic, err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text.WriteString(*block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", wrap(providerAnthropic, ErrEmptyResponse)
	}
	return text.String(), nil
}
