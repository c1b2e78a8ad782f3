// File: internal/client/api.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/homellm/homechat/internal/domain"
)

// APIError is a non-2xx response from the homechat server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
}

// IsNotFound reports whether the server answered 404.
func (e *APIError) IsNotFound() bool { return e.Status == http.StatusNotFound }

// API is the HTTP client for the homechat server's JSON surface.
type API struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPI(baseURL string) *API {
	return &API{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Completions can take minutes on CPU-only hosts.
			Timeout: 5 * time.Minute,
		},
	}
}

// ChatDetail is a chat with its full message history.
type ChatDetail struct {
	ID           uint             `json:"id"`
	Title        string           `json:"title"`
	Model        string           `json:"model"`
	MessageCount int              `json:"message_count"`
	Messages     []domain.Message `json:"messages"`
}

// TurnResult is the outcome of one completed exchange.
type TurnResult struct {
	Response string `json:"response"`
	Model    string `json:"model"`
}

func (a *API) ListChats(ctx context.Context) ([]domain.Chat, error) {
	var resp struct {
		Chats []domain.Chat `json:"chats"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/chats", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Chats, nil
}

func (a *API) CreateChat(ctx context.Context, title, model string) (*domain.Chat, error) {
	req := map[string]string{"title": title, "model": model}
	var resp struct {
		Chat domain.Chat `json:"chat"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/chats", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Chat, nil
}

func (a *API) GetChat(ctx context.Context, chatID uint) (*ChatDetail, error) {
	var resp struct {
		Chat ChatDetail `json:"chat"`
	}
	path := fmt.Sprintf("/api/chats/%d", chatID)
	if err := a.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Chat, nil
}

func (a *API) RenameChat(ctx context.Context, chatID uint, title string) (*domain.Chat, error) {
	req := map[string]string{"title": title}
	var resp struct {
		Chat domain.Chat `json:"chat"`
	}
	path := fmt.Sprintf("/api/chats/%d", chatID)
	if err := a.do(ctx, http.MethodPut, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Chat, nil
}

func (a *API) DeleteChat(ctx context.Context, chatID uint) error {
	path := fmt.Sprintf("/api/chats/%d", chatID)
	return a.do(ctx, http.MethodDelete, path, nil, nil)
}

// SendMessage runs one turn. Model may be empty to use the chat's own.
func (a *API) SendMessage(ctx context.Context, chatID uint, message, model string) (*TurnResult, error) {
	req := map[string]interface{}{
		"chat_id": chatID,
		"message": message,
		"model":   model,
	}
	var resp TurnResult
	if err := a.do(ctx, http.MethodPost, "/api/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ModelCatalog is the server's model listing with the default marked.
type ModelCatalog struct {
	Models       []string          `json:"models"`
	Descriptions map[string]string `json:"descriptions"`
	DefaultModel string            `json:"default_model"`
}

func (a *API) Models(ctx context.Context) (*ModelCatalog, error) {
	var resp ModelCatalog
	if err := a.do(ctx, http.MethodGet, "/api/models", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Healthy reports whether the server considers its inference backend
// reachable.
func (a *API) Healthy(ctx context.Context) bool {
	var resp struct {
		Status string `json:"status"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return false
	}
	return resp.Status == "healthy"
}

func (a *API) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &errBody) != nil || errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: errBody.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse server response: %w", err)
	}
	return nil
}
