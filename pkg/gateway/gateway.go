// Package gateway sends one system prompt and one user message to a completion
// provider and returns the reply text.
package gateway

import (
	"context"
	"errors"
	"fmt"

	configpkg "github.com/minhyannv/persona-chat/pkg/config"
)

// Gateway is a single-shot completion endpoint. Implementations keep no history.
type Gateway interface {
	Complete(ctx context.Context, userText, systemPrompt string) (string, error)
}

// ErrEmptyResponse is wrapped when a provider answers without any text.
var ErrEmptyResponse = errors.New("empty completion response")

// Error wraps every failure returned by a provider call.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Provider: provider, Err: err}
}

// New selects the provider named in cfg. cfg should already be normalized.
func New(cfg configpkg.Config) (Gateway, error) {
	switch cfg.Provider {
	case configpkg.ProviderOpenAI, "":
		return NewOpenAI(OpenAIOptions{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		}), nil
	case configpkg.ProviderAnthropic:
		return NewAnthropic(AnthropicOptions{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
