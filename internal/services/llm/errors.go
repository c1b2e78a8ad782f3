// File: internal/services/llm/errors.go
package llm

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeValidation ErrorType = "VALIDATION"
)

// ProviderError carries enough context to map an inference failure to
// an HTTP class: NETWORK means the backend is unreachable, PROVIDER
// means it answered with a failure.
type ProviderError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("LLM %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("LLM %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Cause }

func NewConfigError(msg string) *ProviderError {
	return &ProviderError{Type: ErrTypeConfig, Operation: "config", Message: msg}
}

func NewNetworkError(operation, msg string, cause error) *ProviderError {
	return &ProviderError{Type: ErrTypeNetwork, Operation: operation, Message: msg, Cause: cause}
}

func NewProviderError(operation, msg string, cause error) *ProviderError {
	return &ProviderError{Type: ErrTypeProvider, Operation: operation, Message: msg, Cause: cause}
}
