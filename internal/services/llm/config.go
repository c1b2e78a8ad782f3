// File: internal/services/llm/config.go
package llm

import (
	"fmt"
	"time"
)

type Config struct {
	// Backend selection: "ollama" talks the native Ollama API,
	// "openai" talks any OpenAI-compatible endpoint.
	ProviderName string
	BaseURL      string
	APIKey       string

	// Sampling parameters forwarded with every request.
	Temperature float32
	TopP        float32
	MaxTokens   int

	// Timeouts. Completions can take minutes on CPU-bound hosts;
	// health probes must stay snappy.
	RequestTimeout time.Duration
	ProbeTimeout   time.Duration

	SystemPrompt string
}

func (c *Config) Validate() error {
	if c.ProviderName != "ollama" && c.ProviderName != "openai" {
		return fmt.Errorf("unknown provider %q", c.ProviderName)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.ProviderName == "openai" && c.APIKey == "" {
		return fmt.Errorf("api_key is required for the openai provider")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		ProviderName:   "ollama",
		BaseURL:        "http://localhost:11434",
		Temperature:    0.3,
		TopP:           0.9,
		MaxTokens:      2048,
		RequestTimeout: 120 * time.Second,
		ProbeTimeout:   5 * time.Second,
		SystemPrompt:   defaultSystemPrompt,
	}
}

const defaultSystemPrompt = `You are a helpful AI assistant running locally on this machine.
You can help with various tasks including answering questions, writing
and editing text, solving problems, providing explanations, and helping
with coding tasks. Be helpful, accurate, and concise in your responses.`
