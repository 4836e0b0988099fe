package agent

import (
	"fmt"
	"strings"
	"sync"

	"devcrew/pkg/agent/internal/llmimpl/anthropic"
	"devcrew/pkg/agent/internal/llmimpl/gemini"
	"devcrew/pkg/agent/internal/llmimpl/ollama"
	"devcrew/pkg/agent/internal/llmimpl/openai"
	"devcrew/pkg/config"
	"devcrew/pkg/logx"
)

// Factory builds and caches LLM clients. The cache is keyed by
// (model, temperature): temperature is bound at request-build time but kept
// in the key so distinct role configurations get distinct cached entries.
// The factory is an explicit, injectable dependency with process lifetime —
// created once, never invalidated mid-run.
type Factory struct {
	cfg    config.Config
	mu     sync.Mutex
	cache  map[string]LLMClient
	logger *logx.Logger
}

// NewFactory creates a client factory for the given configuration.
func NewFactory(cfg config.Config) *Factory {
	return &Factory{
		cfg:    cfg,
		cache:  make(map[string]LLMClient),
		logger: logx.NewLogger("llm-factory"),
	}
}

// Get returns the cached client for a role configuration, building and
// wrapping it with retry on first use.
func (f *Factory) Get(role config.RoleConfig) (LLMClient, error) {
	key := fmt.Sprintf("%s@%.2f", role.Model, role.Temperature)

	f.mu.Lock()
	defer f.mu.Unlock()

	if client, ok := f.cache[key]; ok {
		return client, nil
	}

	raw, err := f.build(role.Model)
	if err != nil {
		return nil, err
	}

	retryCfg := DefaultRetryConfig
	retryCfg.MaxRetries = f.cfg.MaxRetries
	client := NewRetryableClient(raw, retryCfg)

	f.logger.Info("initialized client for %s (temperature=%.2f)", role.Model, role.Temperature)
	f.cache[key] = client
	return client, nil
}

// build constructs a raw provider client for a model name.
func (f *Factory) build(model string) (LLMClient, error) {
	switch ProviderForModel(model) {
	case config.ProviderAnthropic:
		if f.cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("model %s requires ANTHROPIC_API_KEY", model)
		}
		return anthropic.NewClient(f.cfg.AnthropicAPIKey, model), nil
	case config.ProviderOpenAI:
		if f.cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("model %s requires OPENAI_API_KEY", model)
		}
		return openai.NewClient(f.cfg.OpenAIAPIKey, model), nil
	case config.ProviderGoogle:
		if f.cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("model %s requires GOOGLE_API_KEY", model)
		}
		return gemini.NewClient(f.cfg.GoogleAPIKey, model), nil
	default:
		return ollama.NewClient(f.cfg.OllamaHost, model), nil
	}
}

// ProviderForModel infers the API provider from a model name. Anything not
// recognizably a hosted-API model is assumed to run on the local Ollama
// runtime, which needs no key.
func ProviderForModel(model string) string {
	switch {
	case strings.HasPrefix(model, "claude"):
		return config.ProviderAnthropic
	case strings.HasPrefix(model, "gpt"), strings.HasPrefix(model, "o1"),
		strings.HasPrefix(model, "o3"), strings.HasPrefix(model, "o4"):
		return config.ProviderOpenAI
	case strings.HasPrefix(model, "gemini"):
		return config.ProviderGoogle
	default:
		return config.ProviderOllama
	}
}
