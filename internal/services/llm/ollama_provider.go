// File: internal/services/llm/ollama_provider.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// OllamaProvider talks the native Ollama HTTP API: /api/chat for
// completions and /api/tags for model listing and health probes.
type OllamaProvider struct {
	config     *Config
	httpClient *http.Client
}

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature,omitempty"`
	TopP        float32 `json:"top_p,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model   string      `json:"model"`
	Message ChatMessage `json:"message"`
	Done    bool        `json:"done"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func NewOllamaProvider(config *Config) *OllamaProvider {
	return &OllamaProvider{
		config: config,
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
		},
	}
}

// Chat sends the full message context and returns the completed reply.
// Responses are requested unstreamed; the caller gets one final string.
func (p *OllamaProvider) Chat(ctx context.Context, model string, messages []ChatMessage) (string, error) {
	withSystem := make([]ChatMessage, 0, len(messages)+1)
	if p.config.SystemPrompt != "" {
		withSystem = append(withSystem, ChatMessage{Role: "system", Content: p.config.SystemPrompt})
	}
	withSystem = append(withSystem, messages...)

	req := ollamaChatRequest{
		Model:    model,
		Messages: withSystem,
		Stream:   false,
		Options: ollamaOptions{
			Temperature: p.config.Temperature,
			TopP:        p.config.TopP,
			NumPredict:  p.config.MaxTokens,
		},
	}

	body, err := p.post(ctx, "/api/chat", req)
	if err != nil {
		return "", err
	}

	var chatResp ollamaChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", NewProviderError("completion", "failed to parse Ollama response", err)
	}
	if chatResp.Message.Content == "" {
		return "", &ProviderError{
			Type:      ErrTypeProvider,
			Operation: "completion",
			Message:   "empty completion response",
		}
	}
	return chatResp.Message.Content, nil
}

// ListModels returns the names of locally available models.
func (p *OllamaProvider) ListModels(ctx context.Context) ([]string, error) {
	body, err := p.get(ctx, "/api/tags")
	if err != nil {
		return nil, err
	}

	var tags ollamaTagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, NewProviderError("models", "failed to parse Ollama tags response", err)
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// HealthCheck probes /api/tags with a short deadline.
func (p *OllamaProvider) HealthCheck(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, p.config.ProbeTimeout)
	defer cancel()
	_, err := p.get(probeCtx, "/api/tags")
	return err
}

func (p *OllamaProvider) GetStatus(ctx context.Context) ProviderStatus {
	if err := p.HealthCheck(ctx); err != nil {
		return ProviderStatus{IsHealthy: false, Message: err.Error()}
	}
	return ProviderStatus{IsHealthy: true, Message: "Ollama reachable"}
}

func (p *OllamaProvider) post(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, NewProviderError("request", "failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, NewProviderError("request", "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return p.do(httpReq)
}

func (p *OllamaProvider) get(ctx context.Context, endpoint string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+endpoint, nil)
	if err != nil {
		return nil, NewProviderError("request", "failed to create request", err)
	}
	return p.do(httpReq)
}

func (p *OllamaProvider) do(req *http.Request) ([]byte, error) {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, NewNetworkError("request", "cannot connect to Ollama", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewProviderError("request",
			fmt.Sprintf("Ollama API error (status %d): %s", resp.StatusCode, body), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("request", "failed to read response", err)
	}
	return body, nil
}
