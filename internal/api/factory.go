package api

import (
	"fmt"

	"github.com/notexe/assistant/internal/config"
)

// NewProvider builds the configured LLM backend. It returns a nil Provider
// and no error when the provider is "none", which callers treat as "answer
// without an LLM".
func NewProvider(cfg *config.ProviderConfig) (Provider, error) {
	switch cfg.Type {
	case config.ProviderNone, "":
		return nil, nil
	case config.ProviderDeepSeek:
		return NewDeepSeekProvider(cfg.DeepSeek)
	case config.ProviderOllama:
		return NewOllamaProvider(cfg.Ollama)
	}
	return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
		cfg.Type, config.ProviderNone, config.ProviderDeepSeek, config.ProviderOllama)
}
