package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANALYST_MODEL", "")
	t.Setenv("ANALYST_PROVIDER_URL", "")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Agent.Model)
	assert.Equal(t, 5, cfg.Agent.MaxToolRounds)
	assert.InDelta(t, 0.7, cfg.Agent.Temperature, 1e-9)
	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.Provider.BaseURL)
	assert.False(t, cfg.Provider.Offline)
	assert.False(t, cfg.HasAPIKey())
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	configYAML := `
agent:
  model: gpt-4o
  max_tool_rounds: 8
charts:
  output_dir: /tmp/charts
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configYAML), 0644))
	credentialsYAML := `
openai:
  api_key: sk-test
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.yaml"), []byte(credentialsYAML), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.Agent.Model)
	assert.Equal(t, 8, cfg.Agent.MaxToolRounds)
	assert.Equal(t, "/tmp/charts", cfg.Charts.OutputDir)
	// Unset fields keep their defaults.
	assert.InDelta(t, 0.7, cfg.Agent.Temperature, 1e-9)
	assert.Equal(t, "sk-test", cfg.Credentials.OpenAI.APIKey)
	assert.True(t, cfg.HasAPIKey())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("ANALYST_MODEL", "gpt-4-turbo")
	t.Setenv("ANALYST_PROVIDER_URL", "http://localhost:9999")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.Credentials.OpenAI.APIKey)
	assert.Equal(t, "gpt-4-turbo", cfg.Agent.Model)
	assert.Equal(t, "http://localhost:9999", cfg.Provider.BaseURL)
}

func TestLoadMalformedConfig(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("agent: ["), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Agent:    AgentConfig{Model: "gpt-4o-mini", Temperature: 0.7, MaxToolRounds: 5},
		Provider: ProviderConfig{BaseURL: "https://example.com"},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tool rounds", func(c *Config) { c.Agent.MaxToolRounds = 0 }},
		{"negative temperature", func(c *Config) { c.Agent.Temperature = -1 }},
		{"temperature above range", func(c *Config) { c.Agent.Temperature = 2.5 }},
		{"missing base url online", func(c *Config) { c.Provider.BaseURL = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateOfflineWithoutBaseURL(t *testing.T) {
	cfg := Config{
		Agent:    AgentConfig{Temperature: 0.7, MaxToolRounds: 5},
		Provider: ProviderConfig{Offline: true},
	}
	assert.NoError(t, cfg.Validate())
}
