// Package config provides configuration management for the analyst application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Agent       AgentConfig    `mapstructure:"agent"`
	Provider    ProviderConfig `mapstructure:"provider"`
	Charts      ChartConfig    `mapstructure:"charts"`
	UI          UIConfig       `mapstructure:"ui"`
	Credentials Credentials    `mapstructure:"-"` // Loaded separately
}

// AgentConfig holds reasoning-engine configuration.
type AgentConfig struct {
	Model         string  `mapstructure:"model"`
	Temperature   float64 `mapstructure:"temperature"`
	MaxToolRounds int     `mapstructure:"max_tool_rounds"`
}

// ProviderConfig holds market-data provider configuration.
type ProviderConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
	Offline   bool   `mapstructure:"offline"`
	DataDir   string `mapstructure:"data_dir"` // CSV directory for offline replay
}

// ChartConfig holds chart artifact output configuration.
type ChartConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ShowSteps bool `mapstructure:"show_steps"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/market-analyst"
	}
	return filepath.Join(home, ".config", "market-analyst")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.yaml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	loadCredentials(configDir, &cfg.Credentials)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("agent.model", "gpt-4o-mini")
	v.SetDefault("agent.temperature", 0.7)
	v.SetDefault("agent.max_tool_rounds", 5)
	v.SetDefault("provider.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("provider.user_agent", "market-analyst/0.1")
	v.SetDefault("provider.offline", false)
	v.SetDefault("provider.data_dir", filepath.Join(configDir, "data"))
	v.SetDefault("charts.output_dir", filepath.Join(configDir, "charts"))
	v.SetDefault("ui.show_steps", false)
}

func loadCredentials(configDir string, creds *Credentials) {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		return // env vars or interactive prompt can still supply the key
	}
	_ = v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("ANALYST_MODEL"); v != "" {
		cfg.Agent.Model = v
	}
	if v := os.Getenv("ANALYST_PROVIDER_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Agent.MaxToolRounds < 1 {
		return fmt.Errorf("agent.max_tool_rounds must be at least 1, got %d", c.Agent.MaxToolRounds)
	}
	if c.Agent.Temperature < 0 || c.Agent.Temperature > 2 {
		return fmt.Errorf("agent.temperature must be between 0 and 2, got %.2f", c.Agent.Temperature)
	}
	if c.Provider.BaseURL == "" && !c.Provider.Offline {
		return fmt.Errorf("provider.base_url is required unless offline mode is enabled")
	}
	return nil
}

// HasAPIKey reports whether a model API key is configured.
func (c *Config) HasAPIKey() bool {
	return c.Credentials.OpenAI.APIKey != ""
}
