// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	token := cfg.YNAB.Token
//	descriptor := cfg.Privacy.Descriptor
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultDescriptor is the payee substring that marks a YNAB transaction as
// originating from a Privacy.com card charge.
const DefaultDescriptor = "Pwp*privacy.com"

// Config represents the entire application configuration
type Config struct {
	YNAB          YNABConfig          `yaml:"ynab"`
	Privacy       PrivacyConfig       `yaml:"privacy"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// YNABConfig holds YNAB API configuration
type YNABConfig struct {
	Token    string `yaml:"token"`
	BudgetID string `yaml:"budget_id"`
	BaseURL  string `yaml:"base_url"`
}

// PrivacyConfig holds Privacy.com API configuration
type PrivacyConfig struct {
	Token      string `yaml:"token"`
	BaseURL    string `yaml:"base_url"`
	Descriptor string `yaml:"descriptor"`
	PageSize   int    `yaml:"page_size"`
}

// APIConfig holds settings for the HTTP trigger server
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${YNAB_API_TOKEN})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := &Config{
		YNAB: YNABConfig{
			Token:    os.Getenv("YNAB_API_TOKEN"),
			BudgetID: os.Getenv("YNAB_BUDGET_ID"),
		},
		Privacy: PrivacyConfig{
			Token:      os.Getenv("PRIVACY_API_TOKEN"),
			Descriptor: getEnv("PRIVACY_DESCRIPTOR", DefaultDescriptor),
			PageSize:   getEnvInt("PRIVACY_PAGE_SIZE", 50),
		},
		API: APIConfig{
			Port: getEnvInt("API_PORT", 8080),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}

	// Legacy toggle from the original script era
	if getEnv("DEBUG", "false") == "true" {
		cfg.Observability.Logging.Level = "debug"
	}

	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// applyDefaults fills in zero-valued tunables after either load path.
func (c *Config) applyDefaults() {
	if c.Privacy.Descriptor == "" {
		c.Privacy.Descriptor = DefaultDescriptor
	}
	if c.Privacy.PageSize <= 0 {
		c.Privacy.PageSize = 50
	}
	if c.API.Port <= 0 {
		c.API.Port = 8080
	}
	if len(c.API.AllowedOrigins) == 0 {
		c.API.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
}

// Validate checks that the credentials required for a live run are present.
func (c *Config) Validate() error {
	if c.YNAB.Token == "" {
		return fmt.Errorf("YNAB_API_TOKEN is not set")
	}
	if c.YNAB.BudgetID == "" {
		return fmt.Errorf("YNAB_BUDGET_ID is not set")
	}
	if c.Privacy.Token == "" {
		return fmt.Errorf("PRIVACY_API_TOKEN is not set")
	}
	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
