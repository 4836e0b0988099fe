// Package config provides configuration loading and validation for the pipeline.
//
// Configuration comes from three layers, later layers winning:
// built-in defaults, an optional YAML file, and environment variables for
// secrets (API keys) that should never live in a checked-in file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider identifiers for LLM backends.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGoogle    = "google"
	ProviderOllama    = "ollama"
)

// RoleConfig holds the model parameters for a single pipeline role.
type RoleConfig struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// RetrievalConfig holds similarity-store tuning.
type RetrievalConfig struct {
	DBPath         string  `yaml:"db_path"`
	TopK           int     `yaml:"top_k"`
	ScoreThreshold float64 `yaml:"score_threshold"`
	ChunkSize      int     `yaml:"chunk_size"`
	ChunkOverlap   int     `yaml:"chunk_overlap"`
	MaxExamples    int     `yaml:"max_examples"`
	PreviewChars   int     `yaml:"preview_chars"`
}

// Config is the root configuration for a pipeline run.
type Config struct {
	// OutputDir is the root all generated files must resolve under.
	OutputDir string `yaml:"output_dir"`
	// ArchiveDir receives the zip artifact produced after a terminal state.
	ArchiveDir string `yaml:"archive_dir"`

	// MaxIterations is the review-cycle ceiling before forced termination.
	MaxIterations int `yaml:"max_iterations"`

	// RequestTimeout bounds a single model invocation.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// MaxRetries bounds retry attempts for retryable model failures.
	MaxRetries int `yaml:"max_retries"`

	// OllamaHost is the base URL for the Ollama runtime.
	OllamaHost string `yaml:"ollama_host"`

	// API keys are populated from the environment, never from YAML.
	AnthropicAPIKey string `yaml:"-"`
	OpenAIAPIKey    string `yaml:"-"`
	GoogleAPIKey    string `yaml:"-"`

	Retrieval RetrievalConfig `yaml:"retrieval"`

	Requirements RoleConfig `yaml:"requirements"`
	Architect    RoleConfig `yaml:"architect"`
	CodeGen      RoleConfig `yaml:"codegen"`
	Review       RoleConfig `yaml:"review"`

	// MetricsEnabled switches between the Prometheus and no-op recorders.
	MetricsEnabled bool `yaml:"metrics_enabled"`
	// MetricsAddr is the listen address for the /metrics endpoint.
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns the built-in configuration. Model defaults target a local
// Ollama runtime so the pipeline works without any API key.
func Default() Config {
	return Config{
		OutputDir:      "output_projects",
		ArchiveDir:     ".",
		MaxIterations:  10,
		RequestTimeout: 10 * time.Minute,
		MaxRetries:     2,
		OllamaHost:     "http://localhost:11434",
		Retrieval: RetrievalConfig{
			DBPath:         "devcrew.db",
			TopK:           6,
			ScoreThreshold: 0.75,
			ChunkSize:      1500,
			ChunkOverlap:   200,
			MaxExamples:    5,
			PreviewChars:   1500,
		},
		Requirements: RoleConfig{Model: "qwen2.5-coder:14b", Temperature: 0.2, MaxTokens: 8192},
		Architect:    RoleConfig{Model: "qwen2.5-coder:14b", Temperature: 0.1, MaxTokens: 8192},
		CodeGen:      RoleConfig{Model: "qwen2.5-coder:14b", Temperature: 0.2, MaxTokens: 8192},
		Review:       RoleConfig{Model: "qwen2.5-coder:14b", Temperature: 0.1, MaxTokens: 8192},
		MetricsEnabled: false,
		MetricsAddr:    ":9090",
	}
}

// Load reads configuration from the given YAML file, layered over Default.
// A missing file is not an error: defaults plus environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to env layering.
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv layers environment variables over the loaded config.
func (c *Config) applyEnv() {
	c.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	c.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")

	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		c.OllamaHost = host
	}
}

// Validate checks invariants that would otherwise surface mid-run.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be at least 1, got %d", c.MaxIterations)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("retrieval.top_k must be at least 1, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.ChunkSize < 1 {
		return fmt.Errorf("retrieval.chunk_size must be at least 1, got %d", c.Retrieval.ChunkSize)
	}
	if c.Retrieval.ChunkOverlap < 0 || c.Retrieval.ChunkOverlap >= c.Retrieval.ChunkSize {
		return fmt.Errorf("retrieval.chunk_overlap must be in [0, chunk_size), got %d", c.Retrieval.ChunkOverlap)
	}
	for _, rc := range []struct {
		name string
		cfg  RoleConfig
	}{
		{"requirements", c.Requirements},
		{"architect", c.Architect},
		{"codegen", c.CodeGen},
		{"review", c.Review},
	} {
		if rc.cfg.Model == "" {
			return fmt.Errorf("%s.model must not be empty", rc.name)
		}
	}
	return nil
}
