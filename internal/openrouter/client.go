// Package openrouter implements the OpenRouter chat provider via raw HTTP.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"raid-parser/internal/models"

	"go.uber.org/zap"
)

// Client talks to the OpenRouter chat completions API.
type Client struct {
	apiKey     string
	baseURL    string
	modelName  string
	httpClient *http.Client
	logger     *zap.Logger
	maxRetries int
	retryDelay time.Duration
}

// Config for the OpenRouter client.
type Config struct {
	APIKey     string
	ModelName  string // Default: "meta-llama/llama-3.2-3b-instruct:free"
	BaseURL    string
	MaxRetries int
	RetryDelay time.Duration
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient creates a new OpenRouter client.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if cfg.ModelName == "" {
		cfg.ModelName = "meta-llama/llama-3.2-3b-instruct:free"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	logger.Info("OpenRouter client initialized",
		zap.String("model", cfg.ModelName),
		zap.Int("max_retries", cfg.MaxRetries))

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		modelName:  cfg.ModelName,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// Close closes the OpenRouter client.
func (c *Client) Close() error { return nil }

// Name identifies the provider.
func (c *Client) Name() string { return "openrouter" }

// Complete sends one chat completion and returns the raw response content.
func (c *Client) Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying OpenRouter request",
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", c.maxRetries))
			time.Sleep(c.retryDelay)
		}

		msgs := make([]chatMessage, 0, 2)
		if system != "" {
			msgs = append(msgs, chatMessage{Role: "system", Content: system})
		}
		msgs = append(msgs, chatMessage{Role: "user", Content: prompt})

		jsonData, err := json.Marshal(chatRequest{
			Model:       c.modelName,
			Messages:    msgs,
			Temperature: 0.3,
			MaxTokens:   maxTokens,
		})
		if err != nil {
			lastErr = fmt.Errorf("failed to marshal request: %w", err)
			continue
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
		if err != nil {
			lastErr = fmt.Errorf("failed to create request: %w", err)
			continue
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("HTTP-Referer", "https://github.com/raid-parser")
		req.Header.Set("X-Title", "Raid Parser")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = &models.ServiceError{Provider: c.Name(), Err: err}
			c.logger.Error("OpenRouter API error", zap.Error(err), zap.Int("attempt", attempt+1))
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = &models.ServiceError{
				Provider:   c.Name(),
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("openrouter API returned status %d: %s", resp.StatusCode, models.Truncate(string(body))),
			}
			c.logger.Error("OpenRouter API error",
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1))
			continue
		}

		var parsed chatResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			lastErr = fmt.Errorf("failed to parse response: %w", err)
			continue
		}

		if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
			lastErr = fmt.Errorf("openrouter: %w", models.ErrNoResponse)
			c.logger.Error("Empty response from OpenRouter", zap.Int("attempt", attempt+1))
			continue
		}

		return parsed.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("failed after %d attempts: %w", c.maxRetries, lastErr)
}

// ModelInfo returns model information.
func (c *Client) ModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"provider":    "openrouter",
		"model":       c.modelName,
		"base_url":    c.baseURL,
		"max_retries": c.maxRetries,
		"retry_delay": c.retryDelay.String(),
	}
}
