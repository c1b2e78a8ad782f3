// File: internal/services/llm/ollama_provider_test.go
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newOllamaTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *OllamaProvider) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	return srv, NewOllamaProvider(cfg)
}

func TestOllamaProvider_Chat(t *testing.T) {
	var captured ollamaChatRequest
	_, provider := newOllamaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Model:   captured.Model,
			Message: ChatMessage{Role: "assistant", Content: "completed reply"},
			Done:    true,
		})
	})

	reply, err := provider.Chat(context.Background(), "llama2:7b", []ChatMessage{
		{Role: "user", Content: "hello"},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "completed reply" {
		t.Fatalf("reply = %q, want %q", reply, "completed reply")
	}

	if captured.Stream {
		t.Fatal("requests must ask for unstreamed responses")
	}
	if captured.Model != "llama2:7b" {
		t.Fatalf("model = %q", captured.Model)
	}
	// System prompt goes first, then the conversation.
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v, want system prompt then user turn", captured.Messages)
	}
	if captured.Options.NumPredict == 0 {
		t.Fatal("options must carry the completion cap")
	}
}

func TestOllamaProvider_ChatEmptyCompletion(t *testing.T) {
	_, provider := newOllamaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaChatResponse{Done: true})
	})

	_, err := provider.Chat(context.Background(), "llama2:7b", []ChatMessage{{Role: "user", Content: "hi"}})
	var provErr *ProviderError
	if !errors.As(err, &provErr) || provErr.Type != ErrTypeProvider {
		t.Fatalf("err = %v, want PROVIDER ProviderError", err)
	}
}

func TestOllamaProvider_ChatServerError(t *testing.T) {
	_, provider := newOllamaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := provider.Chat(context.Background(), "missing:1b", []ChatMessage{{Role: "user", Content: "hi"}})
	var provErr *ProviderError
	if !errors.As(err, &provErr) || provErr.Type != ErrTypeProvider {
		t.Fatalf("err = %v, want PROVIDER ProviderError", err)
	}
}

func TestOllamaProvider_ConnectionRefused(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "http://127.0.0.1:1" // nothing listens here

	provider := NewOllamaProvider(cfg)
	_, err := provider.Chat(context.Background(), "llama2:7b", []ChatMessage{{Role: "user", Content: "hi"}})

	var provErr *ProviderError
	if !errors.As(err, &provErr) || provErr.Type != ErrTypeNetwork {
		t.Fatalf("err = %v, want NETWORK ProviderError", err)
	}
}

func TestOllamaProvider_ListModels(t *testing.T) {
	_, provider := newOllamaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"models":[{"name":"llama2:7b"},{"name":"mistral:7b"}]}`))
	})

	models, err := provider.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(models) != 2 || models[0] != "llama2:7b" || models[1] != "mistral:7b" {
		t.Fatalf("models = %v", models)
	}
}

func TestOllamaProvider_GetStatus(t *testing.T) {
	_, provider := newOllamaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	})
	if status := provider.GetStatus(context.Background()); !status.IsHealthy {
		t.Fatalf("status = %+v, want healthy", status)
	}

	cfg := DefaultConfig()
	cfg.BaseURL = "http://127.0.0.1:1"
	down := NewOllamaProvider(cfg)
	if status := down.GetStatus(context.Background()); status.IsHealthy {
		t.Fatal("unreachable backend reported healthy")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty base URL accepted")
	}
}
