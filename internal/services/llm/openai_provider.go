// File: internal/services/llm/openai_provider.go
package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider serves any OpenAI-compatible endpoint, including
// Ollama's own /v1 compatibility surface.
type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (p *OpenAIProvider) Chat(ctx context.Context, model string, messages []ChatMessage) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if p.config.SystemPrompt != "" {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: p.config.SystemPrompt,
		})
	}
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    chatMessages,
		Temperature: p.config.Temperature,
		TopP:        p.config.TopP,
		MaxTokens:   p.config.MaxTokens,
	})
	if err != nil {
		return "", NewProviderError("completion", "failed to create completion", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &ProviderError{
			Type:      ErrTypeProvider,
			Operation: "completion",
			Message:   "empty completion response",
		}
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) ListModels(ctx context.Context) ([]string, error) {
	resp, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, NewNetworkError("models", "failed to list models", err)
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.ID)
	}
	return names, nil
}

func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, p.config.ProbeTimeout)
	defer cancel()
	_, err := p.client.ListModels(probeCtx)
	if err != nil {
		return NewNetworkError("health", "backend unreachable", err)
	}
	return nil
}

func (p *OpenAIProvider) GetStatus(ctx context.Context) ProviderStatus {
	if err := p.HealthCheck(ctx); err != nil {
		return ProviderStatus{IsHealthy: false, Message: err.Error()}
	}
	return ProviderStatus{IsHealthy: true, Message: "backend reachable"}
}

// NewProvider selects the backend named in the config.
func NewProvider(config *Config) (Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}
	switch config.ProviderName {
	case "openai":
		return NewOpenAIProvider(config), nil
	default:
		return NewOllamaProvider(config), nil
	}
}
