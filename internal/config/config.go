package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderGemini LLMProvider = "gemini"
	ProviderOpenAI LLMProvider = "openai"
)

type Config struct {
	// Server
	Port          string `env:"PORT" envDefault:"5000"`
	SessionSecret string `env:"SESSION_SECRET"`

	// LLM settings
	LLMProvider   LLMProvider   `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	GeminiModel   string        `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
	OpenAIModel   string        `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	LLMTimeout    time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`

	// Storage
	HistoryFilePath string `env:"HISTORY_FILE_PATH" envDefault:"data/chat_history.json"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	if cfg.SessionSecret == "" {
		log.Printf("Warning: SESSION_SECRET is not set, using an insecure development default")
		cfg.SessionSecret = "a_very_secret_key_for_dev_if_not_in_env"
	}
	return cfg
}
