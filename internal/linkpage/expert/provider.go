package expert

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Provider names accepted by New.
const (
	ProviderAuto   = ""
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// Config selects and configures a provider.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// New builds the configured generator. It returns a nil Generator when no
// provider is selected, which callers treat as "use canned text". The auto
// provider picks Gemini when an API key is present.
func New(ctx context.Context, cfg Config) (Generator, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == ProviderAuto || provider == "auto" {
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, nil
		}
		provider = ProviderGemini
	}
	switch provider {
	case ProviderNone:
		return nil, nil
	case ProviderGemini:
		gemini, err := NewGemini(ctx, GeminiConfig{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, Timeout: cfg.Timeout})
		if err != nil {
			return nil, err
		}
		return gemini, nil
	case ProviderOpenAI:
		client, err := NewOpenAI(OpenAIConfig{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, Timeout: cfg.Timeout})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
