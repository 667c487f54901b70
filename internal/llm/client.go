package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"raid-parser/internal/gemini"
	"raid-parser/internal/groq"
	"raid-parser/internal/models"
	"raid-parser/internal/openrouter"

	"go.uber.org/zap"
)

const (
	// draftMaxTokens bounds the full-parse completion.
	draftMaxTokens = 800
	// validateMaxTokens bounds the yes/no relevance call.
	validateMaxTokens = 5
)

// Client manages multiple providers with failure-count based failover.
// Safe for concurrent use; each request is stateless.
type Client struct {
	providers    []*RateLimitedProvider
	currentIndex int
	mu           sync.RWMutex
	logger       *zap.Logger
	failureCount map[int]int
	maxFailures  int
}

// ClientConfig holds configuration for the multi-provider client.
type ClientConfig struct {
	Providers   []ProviderConfig
	MaxFailures int // consecutive failures before switching provider
}

// NewClient builds the provider chain from config. Providers that fail to
// initialize are skipped; at least one must survive.
func NewClient(cfg ClientConfig, logger *zap.Logger) (*Client, error) {
	if len(cfg.Providers) == 0 {
		return nil, fmt.Errorf("at least one provider is required")
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 3
	}

	providers := make([]*RateLimitedProvider, 0, len(cfg.Providers))
	for i, pc := range cfg.Providers {
		var provider Provider
		var err error

		switch pc.Type {
		case ProviderGemini:
			provider, err = gemini.NewClient(gemini.Config{
				APIKey:     pc.APIKey,
				ModelName:  pc.ModelName,
				MaxRetries: pc.MaxRetries,
				RetryDelay: pc.RetryDelay,
			}, logger)
		case ProviderGroq:
			provider, err = groq.NewClient(groq.Config{
				APIKey:     pc.APIKey,
				ModelName:  pc.ModelName,
				BaseURL:    pc.BaseURL,
				MaxRetries: pc.MaxRetries,
				RetryDelay: pc.RetryDelay,
			}, logger)
		case ProviderOpenRouter:
			provider, err = openrouter.NewClient(openrouter.Config{
				APIKey:     pc.APIKey,
				ModelName:  pc.ModelName,
				BaseURL:    pc.BaseURL,
				MaxRetries: pc.MaxRetries,
				RetryDelay: pc.RetryDelay,
			}, logger)
		default:
			logger.Warn("Unknown provider type, skipping",
				zap.String("type", string(pc.Type)),
				zap.Int("index", i))
			continue
		}

		if err != nil {
			logger.Error("Failed to create provider",
				zap.String("type", string(pc.Type)),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}

		providers = append(providers, NewRateLimitedProvider(provider, pc.RequestsPerMinute, logger))
		logger.Info("Provider initialized",
			zap.String("type", string(pc.Type)),
			zap.String("model", pc.ModelName),
			zap.Int("index", i))
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers could be initialized")
	}

	return &Client{
		providers:    providers,
		logger:       logger,
		failureCount: make(map[int]int),
		maxFailures:  cfg.MaxFailures,
	}, nil
}

func (c *Client) current() (*RateLimitedProvider, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.providers[c.currentIndex], c.currentIndex
}

func (c *Client) switchNext() {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.currentIndex
	c.currentIndex = (c.currentIndex + 1) % len(c.providers)
	c.logger.Info("Switching provider",
		zap.Int("from_index", old),
		zap.Int("to_index", c.currentIndex))
}

func (c *Client) recordFailure(idx int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failureCount[idx]++
	if c.failureCount[idx] >= c.maxFailures {
		c.logger.Warn("Provider reached max failures",
			zap.Int("provider_index", idx),
			zap.Int("failures", c.failureCount[idx]))
		return true
	}
	return false
}

func (c *Client) resetFailures(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failureCount[idx] = 0
}

// Complete runs one completion, trying each provider in the failover chain
// at most once before giving up.
func (c *Client) Complete(ctx context.Context, system, userPrompt string, maxTokens int) (string, error) {
	out, _, err := c.complete(ctx, system, userPrompt, maxTokens)
	return out, err
}

// complete additionally returns the provider that served the completion, so
// callers can attribute the output even after a failover switch.
func (c *Client) complete(ctx context.Context, system, userPrompt string, maxTokens int) (string, *RateLimitedProvider, error) {
	var lastErr error
	for attempt := 0; attempt < len(c.providers); attempt++ {
		provider, idx := c.current()

		out, err := provider.Complete(ctx, system, userPrompt, maxTokens)
		if err == nil {
			c.resetFailures(idx)
			return out, provider, nil
		}

		lastErr = err
		c.logger.Error("Provider failed",
			zap.String("provider", provider.Name()),
			zap.Int("provider_index", idx),
			zap.Error(err))

		if c.recordFailure(idx) || isRateLimitError(err) {
			c.switchNext()
		}
	}
	if lastErr == nil {
		lastErr = models.ErrNoResponse
	}
	return "", nil, lastErr
}

// GenerateDraft completes the full-parse prompt and extracts the JSON
// payload into a ModelRaidDraft. The result carries the raw completion for
// postprocessor logging plus the serving provider's identity.
func (c *Client) GenerateDraft(ctx context.Context, system, userPrompt string) (*models.DraftResult, error) {
	raw, provider, err := c.complete(ctx, system, userPrompt, draftMaxTokens)
	if err != nil {
		return nil, err
	}

	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, &models.ParseError{Raw: models.Truncate(raw), Err: err}
	}

	var draft models.ModelRaidDraft
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		return nil, &models.ParseError{Raw: models.Truncate(payload), Err: fmt.Errorf("malformed draft JSON: %w", err)}
	}

	result := &models.DraftResult{Draft: &draft, Raw: raw, Provider: provider.Name()}
	if m, ok := provider.ModelInfo()["model"].(string); ok {
		result.ModelVersion = m
	}
	return result, nil
}

// Validate asks the tiny yes/no relevance question. It never fails: any
// provider error degrades to false.
func (c *Client) Validate(ctx context.Context, question string) bool {
	out, err := c.Complete(ctx, "", question, validateMaxTokens)
	if err != nil {
		c.logger.Warn("Relevance validation degraded to false", zap.Error(err))
		return false
	}
	return strings.EqualFold(strings.TrimSpace(out), "true")
}

// ModelInfo reports the current provider's identity.
func (c *Client) ModelInfo() map[string]interface{} {
	provider, idx := c.current()
	info := provider.ModelInfo()
	info["provider_index"] = idx
	info["total_providers"] = len(c.providers)
	return info
}

// Close closes all providers.
func (c *Client) Close() error {
	var lastErr error
	for i, provider := range c.providers {
		if err := provider.Close(); err != nil {
			c.logger.Error("Failed to close provider", zap.Int("index", i), zap.Error(err))
			lastErr = err
		}
	}
	return lastErr
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit")
}
