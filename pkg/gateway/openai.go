package gateway

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const providerOpenAI = "openai"

// OpenAIOptions configures an OpenAI-compatible chat completions client.
type OpenAIOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// OpenAI calls the chat completions endpoint through openai-go.
type OpenAI struct {
	client openai.Client
	opts   OpenAIOptions
}

// NewOpenAI builds the client. Retries are disabled; a failed call surfaces
// to the session immediately.
func NewOpenAI(opts OpenAIOptions) *OpenAI {
	reqOpts := []option.RequestOption{option.WithMaxRetries(0)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	return &OpenAI{client: openai.NewClient(reqOpts...), opts: opts}
}

func (g *OpenAI) newChatParams(userText, systemPrompt string) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.opts.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userText),
		},
		Temperature: openai.Float(g.opts.Temperature),
	}
	if g.opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(g.opts.MaxTokens))
	}
	return params
}

// Complete performs one completion request.
func (g *OpenAI) Complete(ctx context.Context, userText, systemPrompt string) (string, error) {
	completion, err := g.client.Chat.Completions.New(ctx, g.newChatParams(userText, systemPrompt))
	if err != nil {
		return "", wrap(providerOpenAI, err)
	}
	if len(completion.Choices) == 0 {
		return "", wrap(providerOpenAI, ErrEmptyResponse)
	}
	content := completion.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", wrap(providerOpenAI, ErrEmptyResponse)
	}
	return content, nil
}
