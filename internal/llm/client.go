package llm

import (
	"context"
	"fmt"
)

// Client is an abstraction over completion-service providers.
type Client interface {
	// GenerateJSON sends a system instruction and a user prompt and asks the
	// provider for a single JSON object response. The returned string is the
	// raw payload with any markdown fencing stripped; the caller is
	// responsible for schema validation.
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
	// Model returns the configured model identifier.
	Model() string
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates a completion-service client based on configuration.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey)
	default:
		return nil, fmt.Errorf("unknown completion provider %q", config.Provider)
	}
}
