package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/notexe/assistant/internal/config"
)

// Provider is a chat-completion backend. The assistant only uses it for
// one-shot prompts such as summarising search results.
type Provider interface {
	SendMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error)

	// Name returns the provider name ("deepseek", "ollama").
	Name() string

	Close() error
}

// Ask sends a single user prompt with the configured model settings and
// returns the trimmed reply. An empty reply is an error.
func Ask(ctx context.Context, p Provider, model config.ModelSettings, prompt string) (string, error) {
	resp, err := p.SendMessage(ctx, MessageRequest{
		System:      model.SystemPrompt,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Model:       model.Name,
		MaxTokens:   model.MaxTokens,
		Temperature: model.Temperature,
	})
	if err != nil {
		return "", err
	}

	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return "", fmt.Errorf("%s returned an empty reply (stop reason %q)", p.Name(), resp.StopReason)
	}
	return answer, nil
}
