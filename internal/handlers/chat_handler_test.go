// File: internal/handlers/chat_handler_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/homellm/homechat/internal/domain"
	chatrepo "github.com/homellm/homechat/internal/repository/chat"
	"github.com/homellm/homechat/internal/repository/message"
	"github.com/homellm/homechat/internal/services"
	chatservice "github.com/homellm/homechat/internal/services/chat"
	"github.com/homellm/homechat/internal/services/llm"
)

type stubProvider struct {
	reply   string
	chatErr error
	healthy bool
}

func (p *stubProvider) Chat(ctx context.Context, model string, messages []llm.ChatMessage) (string, error) {
	if p.chatErr != nil {
		return "", p.chatErr
	}
	return p.reply, nil
}

func (p *stubProvider) ListModels(ctx context.Context) ([]string, error) {
	if !p.healthy {
		return nil, errors.New("backend down")
	}
	return []string{"llama2:7b", "mistral:7b"}, nil
}

func (p *stubProvider) HealthCheck(ctx context.Context) error {
	if !p.healthy {
		return errors.New("backend down")
	}
	return nil
}

func (p *stubProvider) GetStatus(ctx context.Context) llm.ProviderStatus {
	if !p.healthy {
		return llm.ProviderStatus{IsHealthy: false, Message: "backend down"}
	}
	return llm.ProviderStatus{IsHealthy: true}
}

func newTestRouter(t *testing.T, provider *stubProvider) *mux.Router {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Chat{}, &domain.Message{}))

	svc, err := services.NewChatService(
		chatrepo.NewChatRepository(db),
		message.NewMessageRepository(db),
		provider,
		chatservice.DefaultConfig(),
		&services.NoOpLogger{},
	)
	require.NoError(t, err)

	chatHandler := NewChatHandler(svc)
	healthHandler := NewHealthHandler(provider, "llama2:7b")

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/chats", chatHandler.ListChats).Methods("GET")
	api.HandleFunc("/chats", chatHandler.CreateChat).Methods("POST")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.GetChat).Methods("GET")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.RenameChat).Methods("PUT")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.DeleteChat).Methods("DELETE")
	api.HandleFunc("/chat", chatHandler.HandleChatTurn).Methods("POST")
	api.HandleFunc("/health", healthHandler.Health).Methods("GET")
	api.HandleFunc("/models", healthHandler.Models).Methods("GET")
	return r
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createChat(t *testing.T, router *mux.Router) uint {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/chats", map[string]string{})
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		ChatID uint `json:"chat_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotZero(t, resp.ChatID)
	return resp.ChatID
}

func TestCreateAndListChats(t *testing.T) {
	router := newTestRouter(t, &stubProvider{healthy: true, reply: "hi"})

	id := createChat(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/chats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Chats []domain.Chat `json:"chats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Chats, 1)
	assert.Equal(t, id, resp.Chats[0].ID)
	assert.Equal(t, domain.DefaultTitle, resp.Chats[0].Title)
}

func TestGetChat_NotFound(t *testing.T) {
	router := newTestRouter(t, &stubProvider{healthy: true})

	rec := doJSON(t, router, http.MethodGet, "/api/chats/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestRenameChat(t *testing.T) {
	router := newTestRouter(t, &stubProvider{healthy: true})
	id := createChat(t, router)

	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/chats/%d", id), map[string]string{"title": "Kernel tuning"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Chat domain.Chat `json:"chat"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Kernel tuning", resp.Chat.Title)
}

func TestRenameChat_EmptyTitleRejected(t *testing.T) {
	router := newTestRouter(t, &stubProvider{healthy: true})
	id := createChat(t, router)

	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/chats/%d", id), map[string]string{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteChat(t *testing.T) {
	router := newTestRouter(t, &stubProvider{healthy: true})
	id := createChat(t, router)

	rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/chats/%d", id), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Deleting again answers 404, not 204.
	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/chats/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatTurn_Success(t *testing.T) {
	provider := &stubProvider{healthy: true, reply: "Networking is how computers talk."}
	router := newTestRouter(t, provider)
	id := createChat(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/chat", map[string]interface{}{
		"chat_id": id,
		"message": "how does networking work?",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Response string `json:"response"`
		Model    string `json:"model"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, provider.reply, resp.Response)
	assert.Equal(t, "llama2:7b", resp.Model)

	// The turn retitled the chat from its first reply.
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/chats/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var chatResp struct {
		Chat struct {
			Title        string           `json:"title"`
			MessageCount int              `json:"message_count"`
			Messages     []domain.Message `json:"messages"`
		} `json:"chat"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chatResp))
	assert.Equal(t, "Networking is how computers talk", chatResp.Chat.Title)
	assert.Equal(t, 2, chatResp.Chat.MessageCount)
	require.Len(t, chatResp.Chat.Messages, 2)
}

func TestChatTurn_EmptyMessageRejected(t *testing.T) {
	router := newTestRouter(t, &stubProvider{healthy: true, reply: "hi"})
	id := createChat(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/chat", map[string]interface{}{
		"chat_id": id,
		"message": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatTurn_UnknownChat(t *testing.T) {
	router := newTestRouter(t, &stubProvider{healthy: true, reply: "hi"})

	rec := doJSON(t, router, http.MethodPost, "/api/chat", map[string]interface{}{
		"chat_id": 9999,
		"message": "hello",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatTurn_BackendUnreachable(t *testing.T) {
	provider := &stubProvider{
		healthy: false,
		chatErr: llm.NewNetworkError("chat", "cannot connect", errors.New("connection refused")),
	}
	router := newTestRouter(t, provider)
	id := createChat(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/chat", map[string]interface{}{
		"chat_id": id,
		"message": "anyone there?",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// The user message survived the failed turn.
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/chats/%d", id), nil)
	var chatResp struct {
		Chat struct {
			Messages []domain.Message `json:"messages"`
		} `json:"chat"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chatResp))
	require.Len(t, chatResp.Chat.Messages, 1)
	assert.Equal(t, domain.RoleUser, chatResp.Chat.Messages[0].Role)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &stubProvider{healthy: true})
	rec := doJSON(t, router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	router = newTestRouter(t, &stubProvider{healthy: false})
	rec = doJSON(t, router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestModels_FallsBackToCatalog(t *testing.T) {
	router := newTestRouter(t, &stubProvider{healthy: false})

	rec := doJSON(t, router, http.MethodGet, "/api/models", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Models       []string `json:"models"`
		DefaultModel string   `json:"default_model"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.KnownModels, resp.Models)
	assert.Equal(t, "llama2:7b", resp.DefaultModel)
}
