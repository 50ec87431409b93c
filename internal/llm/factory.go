package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sentinel-audit/sentinel/internal/model"
)

// NewProvider creates a reasoning backend based on configuration.
func NewProvider(ctx context.Context, config model.LLMConfig) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "gemini", "google":
		return NewGeminiProvider(ctx, config)

	case "openai":
		return NewOpenAIProvider(config)

	case "":
		// No provider configured - extraction disabled.
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown reasoning backend: %s (supported: gemini, openai)", config.Provider)
	}
}
