package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Plain JSON unchanged",
			input: `{"score": 80}`,
			want:  `{"score": 80}`,
		},
		{
			name:  "JSON fence stripped",
			input: "```json\n{\"score\": 80}\n```",
			want:  `{"score": 80}`,
		},
		{
			name:  "Generic fence stripped",
			input: "```\n{\"score\": 80}\n```",
			want:  `{"score": 80}`,
		},
		{
			name:  "Fence with language identifier",
			input: "```javascript\n{\"score\": 80}\n```",
			want:  `{"score": 80}`,
		},
		{
			name:  "Surrounding whitespace trimmed",
			input: "  \n{\"score\": 80}\n  ",
			want:  `{"score": 80}`,
		},
		{
			name:  "Backticks inside content preserved",
			input: "```json\n{\"evaluation\": \"uses ``` markers\"}\n```",
			want:  "{\"evaluation\": \"uses ``` markers\"}",
		},
		{
			name:  "Empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.InDelta(t, 0.7, float64(cfg.Temperature), 1e-6)
	assert.Equal(t, 4000, cfg.MaxTokens)

	gemini := DefaultGeminiConfig()
	assert.Equal(t, ProviderGemini, gemini.Provider)
	assert.NotEmpty(t, gemini.Model)
}

func TestConfigWithModel(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.WithModel("gpt-4o")
	assert.Equal(t, "gpt-4o", clone.Model)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, cfg.Provider, clone.Provider)
}

func TestIsReasoningModel(t *testing.T) {
	assert.True(t, isReasoningModel("o3-2025-04-16"))
	assert.True(t, isReasoningModel("o1-mini"))
	assert.True(t, isReasoningModel("gpt-5"))
	assert.False(t, isReasoningModel("gpt-4o-mini"))
	assert.False(t, isReasoningModel("gemini-2.5-flash"))
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(DefaultConfig(), "")
	assert.Error(t, err)
}

func TestNewClientUnknownProvider(t *testing.T) {
	_, err := NewClient(t.Context(), &Config{Provider: Provider("mystery")}, "key")
	assert.Error(t, err)
}
