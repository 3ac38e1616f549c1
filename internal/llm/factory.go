package llm

import (
	"context"
	"fmt"
	"strings"

	"gemini-chatter/internal/config"
)

// NewClient creates the configured provider's client. Missing credentials
// for the selected provider are a hard error so startup can fail fast.
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	switch strings.ToLower(string(cfg.LLMProvider)) {
	case string(config.ProviderGemini):
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case string(config.ProviderOpenAI):
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}
