package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Provider type constants (duplicated from api package to avoid import cycle)
const (
	ProviderNone     = "none"
	ProviderDeepSeek = "deepseek"
	ProviderOllama   = "ollama"
)

// EnvPrefix scopes environment overrides, e.g. ASSISTANT_SERVER__PORT=8080.
const EnvPrefix = "ASSISTANT_"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Reminder ReminderConfig `koanf:"reminder"`
	Speech   SpeechConfig   `koanf:"speech"`
	Provider string         `koanf:"provider"`
	DeepSeek DeepSeekConfig `koanf:"deepseek"`
	Ollama   OllamaConfig   `koanf:"ollama"`
	Model    ModelConfig    `koanf:"model"`
	Search   SearchConfig   `koanf:"search"`
	Telegram TelegramConfig `koanf:"telegram"`
	History  HistoryConfig  `koanf:"history"`
	Client   ClientConfig   `koanf:"client"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	CORSOrigins     []string `koanf:"cors_origins"`
	ShutdownTimeout int      `koanf:"shutdown_timeout"` // seconds
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type ReminderConfig struct {
	SweepInterval   int  `koanf:"sweep_interval"`   // seconds
	DeliveryTimeout int  `koanf:"delivery_timeout"` // seconds, per notifier call
	Speak           bool `koanf:"speak"`            // announce fired reminders via TTS
}

func (r ReminderConfig) Interval() time.Duration {
	return time.Duration(r.SweepInterval) * time.Second
}

func (r ReminderConfig) Timeout() time.Duration {
	return time.Duration(r.DeliveryTimeout) * time.Second
}

type SpeechConfig struct {
	TTSCommand    string `koanf:"tts_command"`
	STTCommand    string `koanf:"stt_command"`
	ListenTimeout int    `koanf:"listen_timeout"` // seconds
	RemoteURL     string `koanf:"remote_url"`     // speak through another assistant's /speak instead
}

type DeepSeekConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
	Timeout int    `koanf:"timeout"`
}

type OllamaConfig struct {
	BaseURL string `koanf:"base_url"`
	Timeout int    `koanf:"timeout"`
}

type ModelConfig struct {
	Name         string  `koanf:"name"`
	MaxTokens    int     `koanf:"max_tokens"`
	Temperature  float64 `koanf:"temperature"`
	SystemPrompt string  `koanf:"system_prompt"`
}

type SearchConfig struct {
	SerperAPIKey string `koanf:"serper_api_key"`
	SerperURL    string `koanf:"serper_url"`
	MaxResults   int    `koanf:"max_results"`
	Timeout      int    `koanf:"timeout"` // seconds
}

type TelegramConfig struct {
	BotToken string `koanf:"bot_token"`
	ChatID   string `koanf:"chat_id"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

type HistoryConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"`
	MaxEntries int    `koanf:"max_entries"`
}

type ClientConfig struct {
	ServerURL    string `koanf:"server_url"`
	PollInterval int    `koanf:"poll_interval"` // seconds between popup polls
	Timeout      int    `koanf:"timeout"`       // seconds
	HistoryFile  string `koanf:"history_file"`  // readline history
}

type LogConfig struct {
	Level string `koanf:"level"`
}

// Load layers defaults, the optional YAML file at configPath, ASSISTANT_*
// environment variables and the well-known service variables, in that order.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = ExpandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if err := applyWellKnownEnv(k); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.History.Path = ExpandPath(cfg.History.Path)
	cfg.Client.HistoryFile = ExpandPath(cfg.Client.HistoryFile)

	return &cfg, nil
}

// envKey maps ASSISTANT_SEARCH__SERPER_API_KEY to search.serper_api_key.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func applyWellKnownEnv(k *koanf.Koanf) error {
	vars := map[string]string{
		"DEEPSEEK_API_KEY":   "deepseek.api_key",
		"SERPER_API_KEY":     "search.serper_api_key",
		"TELEGRAM_BOT_TOKEN": "telegram.bot_token",
		"TELEGRAM_CHAT_ID":   "telegram.chat_id",
	}
	for name, key := range vars {
		if v := os.Getenv(name); v != "" {
			if err := k.Set(key, v); err != nil {
				return fmt.Errorf("failed to apply %s: %w", name, err)
			}
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		if err := k.Set("server.port", port); err != nil {
			return fmt.Errorf("failed to apply PORT: %w", err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderNone, "":
		c.Provider = ProviderNone
	case ProviderDeepSeek:
		if c.DeepSeek.APIKey == "" {
			return fmt.Errorf("DeepSeek API key is required (set DEEPSEEK_API_KEY or add to config file)")
		}
	case ProviderOllama:
		if c.Ollama.BaseURL == "" {
			c.Ollama.BaseURL = "http://localhost:11434"
		}
	default:
		return fmt.Errorf("unknown provider: %s (supported: %s, %s, %s)",
			c.Provider, ProviderNone, ProviderDeepSeek, ProviderOllama)
	}

	if c.Provider != ProviderNone {
		if c.Model.Name == "" {
			return fmt.Errorf("model name is required")
		}
		if c.Model.MaxTokens <= 0 {
			return fmt.Errorf("max_tokens must be positive")
		}
		if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
			return fmt.Errorf("temperature must be between 0 and 2")
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Reminder.SweepInterval <= 0 {
		return fmt.Errorf("reminder sweep_interval must be positive")
	}

	if c.Reminder.DeliveryTimeout <= 0 {
		return fmt.Errorf("reminder delivery_timeout must be positive")
	}

	if c.History.Enabled && c.History.MaxEntries <= 0 {
		return fmt.Errorf("history max_entries must be positive")
	}

	if c.Client.PollInterval <= 0 {
		return fmt.Errorf("client poll_interval must be positive")
	}

	return nil
}

// LLMEnabled reports whether a chat provider is configured.
func (c *Config) LLMEnabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// ProviderConfig contains provider-specific configuration for the API package.
type ProviderConfig struct {
	Type     string
	DeepSeek DeepSeekConfig
	Ollama   OllamaConfig
	Model    ModelSettings
}

// ModelSettings contains model parameters used by all providers.
type ModelSettings struct {
	Name         string
	MaxTokens    int
	Temperature  float64
	SystemPrompt string
}

// GetProviderConfig returns the provider configuration for the API package.
func (c *Config) GetProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		Type:     c.Provider,
		DeepSeek: c.DeepSeek,
		Ollama:   c.Ollama,
		Model: ModelSettings{
			Name:         c.Model.Name,
			MaxTokens:    c.Model.MaxTokens,
			Temperature:  c.Model.Temperature,
			SystemPrompt: c.Model.SystemPrompt,
		},
	}
}

// ExpandPath resolves a leading "~/" to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
