// File: internal/services/chat_service.go
package services

import (
	"context"
	"strings"

	"github.com/homellm/homechat/internal/chatlock"
	"github.com/homellm/homechat/internal/domain"
	chatrepo "github.com/homellm/homechat/internal/repository/chat"
	"github.com/homellm/homechat/internal/repository/message"
	chatservice "github.com/homellm/homechat/internal/services/chat"
	"github.com/homellm/homechat/internal/services/llm"
)

// ChatService composes the store, the title heuristic and the inference
// collaborator into the chat turn and CRUD surface the handlers expose.
type ChatService struct {
	config      *chatservice.Config
	chatRepo    chatrepo.ChatRepository
	messageRepo message.MessageRepository
	provider    llm.Provider
	locks       *chatlock.Registry
	logger      Logger
}

func NewChatService(
	chatRepo chatrepo.ChatRepository,
	messageRepo message.MessageRepository,
	provider llm.Provider,
	config *chatservice.Config,
	logger Logger,
) (*ChatService, error) {
	if chatRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "chat repository is required")
	}
	if messageRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "message repository is required")
	}
	if provider == nil {
		return nil, chatservice.NewValidationError("constructor", "LLM provider is required")
	}
	if config == nil {
		config = chatservice.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, chatservice.NewValidationError("config", err.Error())
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	return &ChatService{
		config:      config,
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		provider:    provider,
		locks:       chatlock.NewRegistry(),
		logger:      logger,
	}, nil
}

// CreateChat starts an empty conversation. Empty titles get the default
// label; empty models get the configured default.
func (s *ChatService) CreateChat(ctx context.Context, title, model string) (*domain.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = domain.DefaultTitle
	}
	if len(title) > 100 {
		title = title[:100]
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = s.config.DefaultModel
	}

	newChat := &domain.Chat{Title: title, Model: model}
	created, err := s.chatRepo.Create(ctx, newChat)
	if err != nil {
		return nil, chatservice.NewStoreError("create_chat", "could not create chat", err)
	}
	s.logger.Info("chat created", "chat_id", created.ID, "model", created.Model)
	return created, nil
}

// GetChat returns a chat and its messages in insertion order.
func (s *ChatService) GetChat(ctx context.Context, chatID uint) (*domain.Chat, []domain.Message, error) {
	chatRecord, err := s.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.messageRepo.FindByChatID(ctx, chatID)
	if err != nil {
		return nil, nil, chatservice.NewStoreError("get_chat", "could not load messages", err)
	}
	return chatRecord, messages, nil
}

// ListChats returns chat summaries, most recently touched first.
func (s *ChatService) ListChats(ctx context.Context) ([]domain.Chat, error) {
	return s.chatRepo.FindAll(ctx)
}

// RenameChat applies an explicit user rename. Unlike the automatic
// first-exchange title, this may happen any number of times.
func (s *ChatService) RenameChat(ctx context.Context, chatID uint, title string) (*domain.Chat, error) {
	if strings.TrimSpace(title) == "" {
		return nil, chatservice.NewValidationError("rename_chat", "chat title cannot be empty")
	}
	return s.chatRepo.Rename(ctx, chatID, strings.TrimSpace(title))
}

func (s *ChatService) DeleteChat(ctx context.Context, chatID uint) error {
	return s.chatRepo.Delete(ctx, chatID)
}

// Exchange runs one chat turn: persist the user message, call the
// inference collaborator with the conversation history, persist the
// reply, and derive a title if this was the chat's first exchange.
//
// The chat's lock is held for the whole sequence, so concurrent turns
// against the same chat serialize instead of interleaving writes. If
// the collaborator fails, the user message stays persisted and the
// caller is told the turn failed.
func (s *ChatService) Exchange(ctx context.Context, chatID uint, userMessage, modelOverride string) (string, string, error) {
	userMessage = strings.TrimSpace(userMessage)
	if userMessage == "" {
		return "", "", chatservice.NewValidationError("exchange", "message cannot be empty")
	}
	if len(userMessage) > s.config.MaxMessageLength {
		return "", "", chatservice.NewValidationError("exchange", "message too long")
	}

	s.locks.Lock(chatID)
	defer s.locks.Unlock(chatID)

	chatRecord, err := s.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return "", "", err
	}

	model := strings.TrimSpace(modelOverride)
	if model == "" {
		model = chatRecord.Model
	}
	if _, err := s.messageRepo.Append(ctx, chatID, domain.RoleUser, userMessage); err != nil {
		return "", "", chatservice.NewStoreError("exchange", "could not persist user message", err)
	}

	history, err := s.messageRepo.FindByChatID(ctx, chatID)
	if err != nil {
		return "", "", chatservice.NewStoreError("exchange", "could not load history", err)
	}

	// The automatic title fires on the chat's first completed
	// exchange. A retry after a failed first turn still counts: no
	// assistant message exists yet.
	firstExchange := !hasAssistantMessage(history)

	reply, err := s.provider.Chat(ctx, model, s.buildContext(history))
	if err != nil {
		s.logger.Error("inference call failed", "chat_id", chatID, "model", model, "error", err)
		return "", "", chatservice.NewBackendError("exchange", chatID, err)
	}

	if _, err := s.messageRepo.Append(ctx, chatID, domain.RoleAssistant, reply); err != nil {
		return "", "", chatservice.NewStoreError("exchange", "could not persist assistant message", err)
	}

	if firstExchange {
		s.applyGeneratedTitle(ctx, chatID, reply)
	}

	s.logger.Info("turn completed", "chat_id", chatID, "model", model)
	return reply, model, nil
}

func hasAssistantMessage(history []domain.Message) bool {
	for _, m := range history {
		if m.Role == domain.RoleAssistant {
			return true
		}
	}
	return false
}

// buildContext converts persisted history into provider messages,
// capped to the most recent HistoryLimit exchanges.
func (s *ChatService) buildContext(history []domain.Message) []llm.ChatMessage {
	limit := s.config.HistoryLimit * 2
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]llm.ChatMessage, 0, len(history))
	for _, m := range history {
		out = append(out, llm.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

// applyGeneratedTitle performs the one automatic rename a chat ever
// gets. A rename failure is logged, not surfaced: the turn itself
// already succeeded.
func (s *ChatService) applyGeneratedTitle(ctx context.Context, chatID uint, reply string) {
	title := chatservice.GenerateTitle(reply)
	if _, err := s.chatRepo.Rename(ctx, chatID, title); err != nil {
		s.logger.Warn("automatic title failed", "chat_id", chatID, "error", err)
		return
	}
	s.logger.Info("chat titled", "chat_id", chatID, "title", title)
}
