// Package llm provides centralized completion-service configuration and
// client abstractions. It supports multiple providers behind one interface.
package llm

// Provider represents a completion-service provider.
type Provider string

// Supported providers.
const (
	// ProviderOpenAI is the OpenAI chat-completion provider.
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini Provider = "gemini"
)

// Config holds the generation parameters for the completion service.
// Temperature is deliberately non-zero: run-to-run variation in the
// evaluation is expected behavior, not something to force out.
type Config struct {
	Provider    Provider
	Model       string
	Temperature float32
	MaxTokens   int
}

// DefaultConfig returns the default configuration (OpenAI gpt-4o-mini).
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderOpenAI,
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		MaxTokens:   4000,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration.
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       "gemini-2.5-flash",
		Temperature: 0.7,
		MaxTokens:   4000,
	}
}

// WithModel returns a copy of the config with the model replaced.
func (c *Config) WithModel(model string) *Config {
	clone := *c
	clone.Model = model
	return &clone
}
