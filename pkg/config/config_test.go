package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10, cfg.MaxIterations)
	assert.Equal(t, 6, cfg.Retrieval.TopK)
	assert.InDelta(t, 0.75, cfg.Retrieval.ScoreThreshold, 0.001)
	assert.Equal(t, float32(0.1), cfg.Architect.Temperature)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().MaxIterations, cfg.MaxIterations)
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
max_iterations: 3
output_dir: generated
architect:
  model: claude-sonnet-4-5
  temperature: 0.3
  max_tokens: 4096
retrieval:
  db_path: test.db
  top_k: 4
  score_threshold: 0.5
  chunk_size: 1000
  chunk_overlap: 100
  max_examples: 3
  preview_chars: 800
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxIterations)
	assert.Equal(t, "generated", cfg.OutputDir)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Architect.Model)
	assert.Equal(t, float32(0.3), cfg.Architect.Temperature)
	assert.Equal(t, 4, cfg.Retrieval.TopK)
	// Untouched sections keep defaults.
	assert.Equal(t, Default().CodeGen.Model, cfg.CodeGen.Model)
}

func TestLoadEnvKeys(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("OLLAMA_HOST", "http://remote:11434")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-test", cfg.AnthropicAPIKey)
	assert.Equal(t, "http://remote:11434", cfg.OllamaHost)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"overlap >= chunk size", func(c *Config) { c.Retrieval.ChunkOverlap = c.Retrieval.ChunkSize }},
		{"empty model", func(c *Config) { c.Review.Model = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
