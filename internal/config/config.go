// Package config loads matic's settings from a YAML file, .env files,
// MATIC_* environment variables and the OS keyring, in that order of
// increasing precedence for secrets.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/keyring"
	"github.com/maticai/matic/internal/nutrition"
	"github.com/maticai/matic/internal/utils"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment variables read by Load.
const (
	EnvDBConnection     = "MATIC_DB_CONNECTION"
	EnvFDCAPIKey        = "MATIC_FDC_API_KEY"
	EnvNutritionBaseURL = "MATIC_NUTRITION_BASE_URL"
	EnvAIBaseURL        = "MATIC_AI_BASE_URL"
	EnvAIAPIKey         = "MATIC_AI_API_KEY"
	EnvServerAddr       = "MATIC_SERVER_ADDR"
	EnvTimezone         = "MATIC_TIMEZONE"
)

type AIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key,omitempty"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

type NutritionConfig struct {
	BaseURL             string               `yaml:"base_url"`
	APIKey              string               `yaml:"api_key,omitempty"`
	DefaultPortionGrams float64              `yaml:"default_portion_grams"`
	ConfidencePenalty   float64              `yaml:"confidence_penalty"`
	Concurrency         int                  `yaml:"concurrency"`
	Thresholds          nutrition.Thresholds `yaml:"thresholds"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the full application configuration.
type Config struct {
	Database  string          `yaml:"database,omitempty"`
	Timezone  string          `yaml:"timezone"`
	AI        AIConfig        `yaml:"ai"`
	Nutrition NutritionConfig `yaml:"nutrition"`
	Server    ServerConfig    `yaml:"server"`
}

func Default() Config {
	return Config{
		Timezone: constants.DefaultTimezone,
		AI: AIConfig{
			BaseURL:    constants.DefaultAIFunctionsBaseURL,
			RetryDelay: constants.OverloadRetryDelay,
		},
		Nutrition: NutritionConfig{
			BaseURL:             constants.DefaultNutritionBaseURL,
			DefaultPortionGrams: constants.DefaultPortionGrams,
			ConfidencePenalty:   constants.DefaultConfidencePenalty,
			Concurrency:         constants.DefaultEstimateConcurrency,
			Thresholds:          nutrition.DefaultThresholds(),
		},
		Server: ServerConfig{Addr: constants.DefaultServerAddr},
	}
}

// DefaultPath returns ~/.config/matic/config.yaml.
func DefaultPath() string {
	return filepath.Join(constants.DefaultConfigDir, "config.yaml")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// LoadDotEnv loads .env files that exist. Variables already set in the
// environment are left alone.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		p, err := ExpandHome(p)
		if err != nil {
			return err
		}
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the YAML file at path (a missing file yields defaults), applies
// environment overrides and keyring secrets, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		expanded, err := ExpandHome(path)
		if err != nil {
			return cfg, err
		}
		data, err := os.ReadFile(expanded)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, expanded, err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyKeyring()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Database, EnvDBConnection)
	set(&c.Nutrition.APIKey, EnvFDCAPIKey)
	set(&c.Nutrition.BaseURL, EnvNutritionBaseURL)
	set(&c.AI.BaseURL, EnvAIBaseURL)
	set(&c.AI.APIKey, EnvAIAPIKey)
	set(&c.Server.Addr, EnvServerAddr)
	set(&c.Timezone, EnvTimezone)
}

func (c *Config) applyKeyring() {
	if c.Nutrition.APIKey == "" {
		c.Nutrition.APIKey = keyring.Lookup(keyring.SecretFDCAPIKey)
	}
	if c.AI.APIKey == "" {
		c.AI.APIKey = keyring.Lookup(keyring.SecretAIAPIKey)
	}
}

// Validate checks value ranges; failures wrap ErrInvalidConfig.
func (c Config) Validate() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidConfig, c.Timezone)
	}
	if c.AI.RetryDelay < 0 {
		return fmt.Errorf("%w: ai.retry_delay must not be negative", ErrInvalidConfig)
	}
	if c.Nutrition.DefaultPortionGrams <= 0 {
		return fmt.Errorf("%w: nutrition.default_portion_grams must be positive", ErrInvalidConfig)
	}
	if c.Nutrition.ConfidencePenalty <= 0 || c.Nutrition.ConfidencePenalty > 1 {
		return fmt.Errorf("%w: nutrition.confidence_penalty must be in (0,1]", ErrInvalidConfig)
	}
	if c.Nutrition.Concurrency < 1 {
		return fmt.Errorf("%w: nutrition.concurrency must be at least 1", ErrInvalidConfig)
	}
	if err := c.Nutrition.Thresholds.Validate(); err != nil {
		return fmt.Errorf("%w: nutrition.thresholds: %v", ErrInvalidConfig, err)
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalidConfig)
	}
	return nil
}

// Save writes cfg to path without secrets.
func Save(cfg Config, path string) error {
	expanded, err := ExpandHome(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	cfg.AI.APIKey = ""
	cfg.Nutrition.APIKey = ""
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(expanded, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// EngineConfig maps the nutrition section onto the engine's settings.
func (c Config) EngineConfig() nutrition.Config {
	return nutrition.Config{
		Thresholds:          c.Nutrition.Thresholds,
		DefaultPortionGrams: c.Nutrition.DefaultPortionGrams,
		ConfidencePenalty:   c.Nutrition.ConfidencePenalty,
		Concurrency:         c.Nutrition.Concurrency,
	}
}
