package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devcrew/pkg/config"
)

func TestProviderForModel(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"claude-sonnet-4-20250514", config.ProviderAnthropic},
		{"claude-3-5-haiku-latest", config.ProviderAnthropic},
		{"gpt-4o", config.ProviderOpenAI},
		{"gpt-4o-mini", config.ProviderOpenAI},
		{"o1-preview", config.ProviderOpenAI},
		{"o3-mini", config.ProviderOpenAI},
		{"gemini-2.0-flash", config.ProviderGoogle},
		{"qwen2.5-coder:14b", config.ProviderOllama},
		{"llama3.1:8b", config.ProviderOllama},
		{"codellama", config.ProviderOllama},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, ProviderForModel(tt.model))
		})
	}
}

func TestFactoryCachesPerModelAndTemperature(t *testing.T) {
	f := NewFactory(config.Default())

	a, err := f.Get(config.RoleConfig{Model: "qwen2.5-coder:14b", Temperature: 0.2})
	require.NoError(t, err)
	b, err := f.Get(config.RoleConfig{Model: "qwen2.5-coder:14b", Temperature: 0.2})
	require.NoError(t, err)
	assert.Same(t, a.(*RetryableClient), b.(*RetryableClient), "same role config must hit the cache")

	c, err := f.Get(config.RoleConfig{Model: "qwen2.5-coder:14b", Temperature: 0.1})
	require.NoError(t, err)
	assert.NotSame(t, a.(*RetryableClient), c.(*RetryableClient), "different temperature must build a distinct client")
}

func TestFactoryRequiresAPIKey(t *testing.T) {
	cfg := config.Default()
	cfg.AnthropicAPIKey = ""
	cfg.OpenAIAPIKey = ""
	cfg.GoogleAPIKey = ""
	f := NewFactory(cfg)

	for _, model := range []string{"claude-sonnet-4-20250514", "gpt-4o", "gemini-2.0-flash"} {
		_, err := f.Get(config.RoleConfig{Model: model, Temperature: 0.1})
		assert.Error(t, err, "hosted model %s must fail without a key", model)
	}
}

func TestFactoryOllamaNeedsNoKey(t *testing.T) {
	cfg := config.Default()
	f := NewFactory(cfg)

	client, err := f.Get(config.RoleConfig{Model: "llama3.1:8b", Temperature: 0.2})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestFactoryBuildsHostedClientsWithKeys(t *testing.T) {
	cfg := config.Default()
	cfg.AnthropicAPIKey = "test-key"
	cfg.OpenAIAPIKey = "test-key"
	cfg.GoogleAPIKey = "test-key"
	f := NewFactory(cfg)

	for _, model := range []string{"claude-sonnet-4-20250514", "gpt-4o", "gemini-2.0-flash"} {
		client, err := f.Get(config.RoleConfig{Model: model, Temperature: 0.1})
		require.NoError(t, err)
		assert.NotNil(t, client)
	}
}
