// File: internal/services/chat/errors.go
package chat

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeStore      ErrorType = "STORE"
	ErrTypeBackend    ErrorType = "BACKEND"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
)

type ChatError struct {
	Type      ErrorType
	Operation string
	Message   string
	ChatID    uint
	Cause     error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewStoreError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeStore, Operation: operation, Message: msg, Cause: cause}
}

// NewBackendError wraps an inference collaborator failure. The user
// message stays persisted when this is returned from a turn.
func NewBackendError(operation string, chatID uint, cause error) *ChatError {
	return &ChatError{
		Type:      ErrTypeBackend,
		Operation: operation,
		Message:   "inference backend failed",
		ChatID:    chatID,
		Cause:     cause,
	}
}
