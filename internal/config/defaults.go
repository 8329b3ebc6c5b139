package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"server": map[string]interface{}{
			"host":             "0.0.0.0",
			"port":             5000,
			"cors_origins":     []string{"*"},
			"shutdown_timeout": 5,
		},
		"reminder": map[string]interface{}{
			"sweep_interval":   3,
			"delivery_timeout": 10,
			"speak":            true,
		},
		"speech": map[string]interface{}{
			"tts_command":    "espeak -s 175",
			"stt_command":    "",
			"listen_timeout": 15,
			"remote_url":     "",
		},
		"provider": "none",
		"deepseek": map[string]interface{}{
			"api_key":  "",
			"base_url": "https://api.deepseek.com",
			"timeout":  120,
		},
		"ollama": map[string]interface{}{
			"base_url": "http://localhost:11434",
			"timeout":  120,
		},
		"model": map[string]interface{}{
			"name":          "deepseek-chat",
			"max_tokens":    500,
			"temperature":   0.3,
			"system_prompt": "You are a helpful assistant that summarizes web search results. Answer in at most three sentences.",
		},
		"search": map[string]interface{}{
			"serper_api_key": "",
			"serper_url":     "https://google.serper.dev/search",
			"max_results":    3,
			"timeout":        10,
		},
		"telegram": map[string]interface{}{
			"bot_token": "",
			"chat_id":   "",
		},
		"history": map[string]interface{}{
			"enabled":     true,
			"path":        "~/.assistant/history.db",
			"max_entries": 200,
		},
		"client": map[string]interface{}{
			"server_url":    "http://localhost:5000",
			"poll_interval": 3,
			"timeout":       30,
			"history_file":  "~/.assistant/readline_history",
		},
		"log": map[string]interface{}{
			"level": "info",
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.assistant/config.yaml"
}
