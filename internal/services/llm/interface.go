package llm

import "context"

// ChatMessage is one turn of conversation context sent to the model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ProviderStatus represents inference backend health.
type ProviderStatus struct {
	IsHealthy bool
	Message   string
}

// Provider is the opaque inference collaborator: it turns a message
// history into a single completed reply. Prompt construction and token
// streaming are its concern, not ours.
type Provider interface {
	Chat(ctx context.Context, model string, messages []ChatMessage) (string, error)
	ListModels(ctx context.Context) ([]string, error)
	HealthCheck(ctx context.Context) error
	GetStatus(ctx context.Context) ProviderStatus
}
