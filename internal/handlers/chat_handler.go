// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	chatrepo "github.com/homellm/homechat/internal/repository/chat"
	"github.com/homellm/homechat/internal/services"
	chatservice "github.com/homellm/homechat/internal/services/chat"
	"github.com/homellm/homechat/internal/services/llm"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(cs *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: cs}
}

// ListChats returns all chat summaries, most recently touched first.
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chatService.ListChats(r.Context())
	if err != nil {
		writeError(w, "Could not retrieve chats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"chats": chats})
}

// CreateChat starts a new empty conversation.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
		Model string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	chat, err := h.chatService.CreateChat(r.Context(), req.Title, req.Model)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"chat_id": chat.ID, "chat": chat})
}

// GetChat returns one chat with its full message history.
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDFromRequest(w, r)
	if !ok {
		return
	}

	chat, messages, err := h.chatService.GetChat(r.Context(), chatID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chat": map[string]interface{}{
			"id":            chat.ID,
			"title":         chat.Title,
			"model":         chat.Model,
			"message_count": chat.MessageCount,
			"created_at":    chat.CreatedAt,
			"updated_at":    chat.UpdatedAt,
			"messages":      messages,
		},
	})
}

// RenameChat applies an explicit user rename.
func (h *ChatHandler) RenameChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	chat, err := h.chatService.RenameChat(r.Context(), chatID, req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"chat": chat})
}

// DeleteChat removes a chat and all of its messages.
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.chatService.DeleteChat(r.Context(), chatID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleChatTurn runs one exchange against the inference backend. On
// backend failure the user message is already persisted; the client is
// told the turn failed and may retry.
func (h *ChatHandler) HandleChatTurn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChatID  uint   `json:"chat_id"`
		Message string `json:"message"`
		Model   string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	reply, model, err := h.chatService.Exchange(r.Context(), req.ChatID, req.Message, req.Model)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"response": reply,
		"model":    model,
	})
}

// chatIDFromRequest parses the {id} path variable, writing the error
// response itself on failure.
func chatIDFromRequest(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	chatID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil || chatID == 0 {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return 0, false
	}
	return uint(chatID), true
}

// writeServiceError maps service errors onto the HTTP taxonomy:
// NotFound → 404, validation → 400, unreachable backend → 503, backend
// failure → 502, anything else → 500.
func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, chatrepo.ErrChatNotFound) {
		writeError(w, "Chat not found", http.StatusNotFound)
		return
	}

	var chatErr *chatservice.ChatError
	if errors.As(err, &chatErr) {
		switch chatErr.Type {
		case chatservice.ErrTypeValidation:
			writeError(w, chatErr.Message, http.StatusBadRequest)
			return
		case chatservice.ErrTypeBackend:
			var provErr *llm.ProviderError
			if errors.As(err, &provErr) && provErr.Type == llm.ErrTypeNetwork {
				writeError(w, "Cannot connect to the inference server. Please make sure it is running.", http.StatusServiceUnavailable)
				return
			}
			writeError(w, "Error communicating with the inference server", http.StatusBadGateway)
			return
		}
	}

	writeError(w, "Internal server error", http.StatusInternalServerError)
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
