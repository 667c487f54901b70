package config

import (
	"fmt"
	"os"

	"raid-parser/internal/llm"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Providers []llm.ProviderConfig `yaml:"providers"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	NATS struct {
		URL     string `yaml:"url"`
		Subject string `yaml:"subject"`
		Enabled bool   `yaml:"enabled"`
	} `yaml:"nats"`

	MaxFailuresBeforeSwitch int `yaml:"max_failures_before_switch"`
}

// LoadConfig loads configuration from a YAML file and applies defaults.
// API keys may reference environment variables ("${GROQ_API_KEY}").
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.Server.Port == "" {
		config.Server.Port = "8004"
	}
	if config.Database.Path == "" {
		config.Database.Path = "./data/raids.db"
	}
	if config.NATS.URL == "" {
		config.NATS.URL = "nats://localhost:4222"
	}
	if config.MaxFailuresBeforeSwitch == 0 {
		config.MaxFailuresBeforeSwitch = 3
	}

	for i := range config.Providers {
		config.Providers[i].APIKey = os.ExpandEnv(config.Providers[i].APIKey)
	}

	return config, nil
}
