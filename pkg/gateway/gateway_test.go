package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configpkg "github.com/minhyannv/persona-chat/pkg/config"
)

type capturedRequest struct {
	Path string
	Body map[string]any
}

func newCaptureServer(t *testing.T, status int, reply string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Path = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &captured.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func TestOpenAICompleteSendsSystemAndUser(t *testing.T) {
	srv, captured := newCaptureServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1,
		"model": "gpt-4o-mini",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Use an INNER JOIN."}}]
	}`)

	g := NewOpenAI(OpenAIOptions{APIKey: "test", BaseURL: srv.URL + "/", Model: "gpt-4o-mini", Temperature: 0.2})
	out, err := g.Complete(context.Background(), "what is a join", "You write SQL.")
	require.NoError(t, err)
	assert.Equal(t, "Use an INNER JOIN.", out)

	assert.True(t, strings.HasSuffix(captured.Path, "/chat/completions"), captured.Path)
	messages, ok := captured.Body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
	assert.Equal(t, "what is a join", messages[1].(map[string]any)["content"])
}

func TestOpenAICompleteWrapsHTTPErrors(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusUnauthorized, `{"error": {"message": "bad key", "type": "invalid_request_error"}}`)

	g := NewOpenAI(OpenAIOptions{APIKey: "bad", BaseURL: srv.URL + "/", Model: "gpt-4o-mini"})
	_, err := g.Complete(context.Background(), "hi", "sys")
	require.Error(t, err)

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "openai", gwErr.Provider)
}

func TestOpenAICompleteRejectsEmptyChoices(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusOK, `{"id": "x", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`)

	g := NewOpenAI(OpenAIOptions{APIKey: "test", BaseURL: srv.URL + "/", Model: "m"})
	_, err := g.Complete(context.Background(), "hi", "sys")
	assert.True(t, errors.Is(err, ErrEmptyResponse))
}

func TestAnthropicCompleteJoinsTextBlocks(t *testing.T) {
	srv, captured := newCaptureServer(t, http.StatusOK, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-3-5-haiku-latest",
		"content": [{"type": "text", "text": "Hello "}, {"type": "text", "text": "there."}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 3, "output_tokens": 2}
	}`)

	g := NewAnthropic(AnthropicOptions{APIKey: "test", BaseURL: srv.URL + "/v1", Model: "claude-3-5-haiku-latest"})
	out, err := g.Complete(context.Background(), "hi", "You are terse.")
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", out)

	assert.Equal(t, "/v1/messages", captured.Path)
	assert.Equal(t, "You are terse.", captured.Body["system"])
	messages, ok := captured.Body["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 1)
}

func TestAnthropicCompleteWrapsErrors(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusUnauthorized, `{"type": "error", "error": {"type": "authentication_error", "message": "bad key"}}`)

	g := NewAnthropic(AnthropicOptions{APIKey: "bad", BaseURL: srv.URL + "/v1", Model: "m"})
	_, err := g.Complete(context.Background(), "hi", "sys")

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "anthropic", gwErr.Provider)
}

func TestMockEchoesInput(t *testing.T) {
	out, err := Mock{}.Complete(context.Background(), " what is a join ", "You write SQL.")
	require.NoError(t, err)
	assert.Contains(t, out, "You asked: what is a join")
	assert.Contains(t, out, "```text")
}

func TestMockHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Mock{Latency: time.Second}.Complete(ctx, "hi", "sys")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewSelectsProvider(t *testing.T) {
	cfg := configpkg.Normalize(configpkg.DefaultConfig())
	cfg.APIKey = "key"

	g, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, g)

	cfg.Provider = configpkg.ProviderAnthropic
	g, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Anthropic{}, g)

	cfg.Provider = "cohere"
	_, err = New(cfg)
	assert.Error(t, err)
}
