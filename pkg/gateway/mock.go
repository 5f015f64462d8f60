package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Mock answers without contacting any provider. The reply is deterministic
// and includes a fenced block so the renderer path can be exercised offline.
type Mock struct {
	Latency time.Duration
}

func (m Mock) Complete(ctx context.Context, userText, systemPrompt string) (string, error) {
	if m.Latency > 0 {
		timer := time.NewTimer(m.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", wrap("mock", ctx.Err())
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return "", wrap("mock", err)
	}

	prompt := []rune(strings.TrimSpace(systemPrompt))
	summary := string(prompt)
	if len(prompt) > 60 {
		summary = string(prompt[:60]) + "..."
	}
	return fmt.Sprintf("Mock response, no provider was called.\n\nYou asked: %s\n\n```text\nsystem: %s\n```",
		strings.TrimSpace(userText), summary), nil
}
