// Package llm manages the generative-text providers behind the parsing
// pipeline: provider selection with failover, per-provider rate limiting,
// and extraction of the JSON payload from raw completions.
package llm

import (
	"context"
	"time"
)

// ProviderType identifies a concrete provider implementation.
type ProviderType string

const (
	ProviderGemini     ProviderType = "gemini"
	ProviderGroq       ProviderType = "groq"
	ProviderOpenRouter ProviderType = "openrouter"
)

// Provider is the interface any generative-text provider implements.
// Providers return the raw completion text; they are not trusted to return
// only JSON, payload extraction happens in this package.
type Provider interface {
	Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error)
	Close() error
	Name() string
	ModelInfo() map[string]interface{}
}

// ProviderConfig holds configuration for a single provider instance.
type ProviderConfig struct {
	Type              ProviderType  `yaml:"type"`
	APIKey            string        `yaml:"api_key"`
	ModelName         string        `yaml:"model_name"`
	BaseURL           string        `yaml:"base_url"`
	MaxRetries        int           `yaml:"max_retries"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}
