// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg, err := config.LoadOrEnv(os.Getenv("CONFIG_PATH"))
//	dsn := cfg.Storage.DSN
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/billsplit/internal/calculator"
)

// Config represents the entire application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Auth       AuthConfig       `yaml:"auth"`
	Calculator CalculatorConfig `yaml:"calculator"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port int `yaml:"port"`
}

// StorageConfig holds session store settings
type StorageConfig struct {
	// DSN is a SQLite path, or ":memory:" to keep sessions in process memory.
	DSN string `yaml:"dsn"`
}

// AuthConfig holds session token settings
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// CalculatorConfig holds allocation settings
type CalculatorConfig struct {
	// FallbackSubtotal is "grand_total" (default) or "bill_base".
	FallbackSubtotal string `yaml:"fallback_subtotal"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server:     ServerConfig{Port: 8080},
		Storage:    StorageConfig{DSN: ":memory:"},
		Auth:       AuthConfig{TokenTTL: 12 * time.Hour},
		Calculator: CalculatorConfig{FallbackSubtotal: string(calculator.FallbackGrandTotal)},
		Logging:    LoggingConfig{Level: "info"},
	}
}

// Load reads and parses the config file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${JWT_SECRET})
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() (*Config, error) {
	cfg := Default()
	cfg.Storage.DSN = getEnv("DB_PATH", cfg.Storage.DSN)
	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.Calculator.FallbackSubtotal = getEnv("FALLBACK_SUBTOTAL", cfg.Calculator.FallbackSubtotal)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		cfg.Auth.TokenTTL = ttl
	}

	return cfg, cfg.Validate()
}

// LoadOrEnv loads from path when it is set, otherwise from the environment.
func LoadOrEnv(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	return LoadFromEnv()
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Storage.DSN == "" {
		return fmt.Errorf("storage.dsn is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if _, err := c.FallbackSubtotal(); err != nil {
		return err
	}
	return nil
}

// FallbackSubtotal returns the parsed calculator fallback mode.
func (c *Config) FallbackSubtotal() (calculator.FallbackSubtotal, error) {
	return calculator.ParseFallbackSubtotal(c.Calculator.FallbackSubtotal)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
