package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/reformcast/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		// No provider configured - LLM disabled
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(c model.LLMConfig) Config {
	return Config{
		Provider:      c.Provider,
		Model:         c.Model,
		APIKey:        c.APIKey,
		BaseURL:       c.BaseURL,
		Timeout:       c.Timeout,
		StrictNumbers: c.StrictNumbers,
		MaxTokens:     c.MaxTokens,
		HTTPProxy:     c.HTTPProxy,
		HTTPSProxy:    c.HTTPSProxy,
		NoProxy:       c.NoProxy,
	}
}
