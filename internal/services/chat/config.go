// File: internal/services/chat/config.go
package chat

import "fmt"

type Config struct {
	// DefaultModel is used when a chat is created without one.
	DefaultModel string

	// HistoryLimit caps how many recent exchanges (user+assistant
	// pairs) are replayed to the inference backend on each turn. The
	// full persisted history is sent up to this cap; single-turn mode
	// is deliberately not offered.
	HistoryLimit int

	// MaxMessageLength bounds user input before any persistence.
	MaxMessageLength int
}

func (c *Config) Validate() error {
	if c.DefaultModel == "" {
		return fmt.Errorf("default_model is required")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive")
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("max_message_length must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		DefaultModel:     "llama2:7b",
		HistoryLimit:     50,
		MaxMessageLength: 10000,
	}
}
