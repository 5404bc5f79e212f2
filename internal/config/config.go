// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port            string
	DBPath          string
	OllamaURL       string
	DefaultModel    string
	GenerateTimeout time.Duration // chat, planner, roleplay
	ResearchTimeout time.Duration // research generation runs longer
	ListLimit       int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "./data/ai_tools.db"),
		OllamaURL:       getEnv("OLLAMA_URL", "http://localhost:11434"),
		DefaultModel:    getEnv("DEFAULT_MODEL", "llama3.1:8b"),
		GenerateTimeout: getEnvDuration("GENERATE_TIMEOUT", 120*time.Second),
		ResearchTimeout: getEnvDuration("RESEARCH_TIMEOUT", 180*time.Second),
		ListLimit:       getEnvInt("LIST_LIMIT", 50),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.OllamaURL == "" {
		return fmt.Errorf("OLLAMA_URL cannot be empty")
	}
	if c.DefaultModel == "" {
		return fmt.Errorf("DEFAULT_MODEL cannot be empty")
	}
	if c.GenerateTimeout <= 0 {
		return fmt.Errorf("GENERATE_TIMEOUT must be > 0")
	}
	if c.ResearchTimeout < c.GenerateTimeout {
		return fmt.Errorf("RESEARCH_TIMEOUT must be at least GENERATE_TIMEOUT")
	}
	if c.ListLimit <= 0 {
		return fmt.Errorf("LIST_LIMIT must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

// getEnvDuration accepts Go duration strings ("120s", "3m") and, for
// compatibility with the previous deployment, bare integers meaning seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
