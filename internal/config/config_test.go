package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearWellKnownEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"DEEPSEEK_API_KEY", "SERPER_API_KEY", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "PORT"} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearWellKnownEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 3*time.Second, cfg.Reminder.Interval())
	assert.Equal(t, 10*time.Second, cfg.Reminder.Timeout())
	assert.Equal(t, ProviderNone, cfg.Provider)
	assert.False(t, cfg.LLMEnabled())
	assert.False(t, cfg.Telegram.Enabled())
	assert.Equal(t, 200, cfg.History.MaxEntries)
	assert.NotContains(t, cfg.History.Path, "~")
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearWellKnownEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 8080
reminder:
  sweep_interval: 5
provider: ollama
search:
  max_results: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("ASSISTANT_REMINDER__DELIVERY_TIMEOUT", "2")
	t.Setenv("ASSISTANT_LOG__LEVEL", "debug")
	t.Setenv("SERPER_API_KEY", "serper-key")
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Reminder.Interval())
	assert.Equal(t, 2*time.Second, cfg.Reminder.Timeout())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, 5, cfg.Search.MaxResults)
	assert.Equal(t, "serper-key", cfg.Search.SerperAPIKey)
	assert.True(t, cfg.Telegram.Enabled())
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.LLMEnabled())
}

func TestLoad_PortEnvWins(t *testing.T) {
	clearWellKnownEnv(t)
	t.Setenv("PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)

	t.Setenv("PORT", "not-a-port")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	clearWellKnownEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
}

func TestLoad_DeepSeekKeyFromEnv(t *testing.T) {
	clearWellKnownEnv(t)
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")
	t.Setenv("ASSISTANT_PROVIDER", "deepseek")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.DeepSeek.APIKey)
	require.NoError(t, cfg.Validate())

	pc := cfg.GetProviderConfig()
	assert.Equal(t, ProviderDeepSeek, pc.Type)
	assert.Equal(t, "deepseek-chat", pc.Model.Name)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		clearWellKnownEnv(t)
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Provider = "gpt" }},
		{"deepseek without key", func(c *Config) { c.Provider = ProviderDeepSeek }},
		{"llm without model", func(c *Config) { c.Provider = ProviderOllama; c.Model.Name = "" }},
		{"temperature out of range", func(c *Config) { c.Provider = ProviderOllama; c.Model.Temperature = 3 }},
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"zero sweep interval", func(c *Config) { c.Reminder.SweepInterval = 0 }},
		{"zero delivery timeout", func(c *Config) { c.Reminder.DeliveryTimeout = 0 }},
		{"history without bound", func(c *Config) { c.History.MaxEntries = 0 }},
		{"zero poll interval", func(c *Config) { c.Client.PollInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("empty provider means none", func(t *testing.T) {
		cfg := valid()
		cfg.Provider = ""
		require.NoError(t, cfg.Validate())
		assert.Equal(t, ProviderNone, cfg.Provider)
	})
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "a", "b"), ExpandPath("~/a/b"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
	assert.Equal(t, "", ExpandPath(""))
}
