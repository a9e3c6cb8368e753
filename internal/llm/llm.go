// Package llm provides the narrow capability interface over Large Language
// Model providers: send a prompt, receive text. Retry and prompt logic live
// in the categorization engine, not here.
package llm

import (
	"context"
	"os"

	"github.com/marcomd/metricmind/schema"
)

// Provider is the single capability each backend exposes.
type Provider interface {
	// Complete produces a text completion for the given prompt.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the provider identifier.
	Name() string
}

// Config holds provider selection and connection settings.
type Config struct {
	Kind    schema.ProviderKind
	Model   string
	BaseURL string
	APIKey  string // Cloud providers only; falls back to the provider env var
}

// NewProvider creates a Provider based on configuration. Missing credentials
// for a cloud provider are a configuration error, fatal at stage startup.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Kind {
	case schema.AnthropicProvider:
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, &Error{
				Kind: KindConfig,
				Op:   "anthropic",
				Hint: "set ANTHROPIC_API_KEY or pass an API key",
			}
		}
		return newAnthropicProvider(cfg, apiKey), nil
	case schema.OllamaProvider:
		return newOllamaProvider(cfg), nil
	case schema.MockProvider:
		return &Mock{}, nil
	default:
		return nil, &Error{
			Kind: KindConfig,
			Op:   string(cfg.Kind),
			Hint: "supported providers: anthropic, ollama, mock",
		}
	}
}
