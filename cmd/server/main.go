// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/homellm/homechat/internal/config"
	"github.com/homellm/homechat/internal/domain"
	"github.com/homellm/homechat/internal/handlers"
	"github.com/homellm/homechat/internal/middleware"
	"github.com/homellm/homechat/internal/ratelimit"
	chatrepo "github.com/homellm/homechat/internal/repository/chat"
	"github.com/homellm/homechat/internal/repository/message"
	"github.com/homellm/homechat/internal/services"
	chatservice "github.com/homellm/homechat/internal/services/chat"
	"github.com/homellm/homechat/internal/services/llm"
)

func main() {
	cfg := config.Load()
	logger := services.NewLogger("homechat")

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.Chat{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	chatRepo := chatrepo.NewChatRepository(db)
	messageRepo := message.NewMessageRepository(db)

	// --- Services ---
	llmConfig := llm.DefaultConfig()
	llmConfig.ProviderName = cfg.LLMProvider
	llmConfig.Temperature = float32(cfg.Temperature)
	llmConfig.TopP = float32(cfg.TopP)
	llmConfig.MaxTokens = cfg.MaxTokens
	switch cfg.LLMProvider {
	case "openai":
		llmConfig.BaseURL = cfg.OpenAIBaseURL
		llmConfig.APIKey = cfg.OpenAIAPIKey
	default:
		llmConfig.BaseURL = cfg.OllamaBaseURL
	}

	provider, err := llm.NewProvider(llmConfig)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize LLM provider: %v", err)
	}

	turnConfig := chatservice.DefaultConfig()
	turnConfig.DefaultModel = cfg.DefaultModel
	turnConfig.HistoryLimit = cfg.ChatHistoryLimit

	chatService, err := services.NewChatService(chatRepo, messageRepo, provider, turnConfig, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Service: %v", err)
	}

	// --- Handlers ---
	chatHandler := handlers.NewChatHandler(chatService)
	healthHandler := handlers.NewHealthHandler(provider, cfg.DefaultModel)
	pageHandler := handlers.NewPageHandler(chatService)

	// --- Router Setup ---
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	turnLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultTurnConfig())
	defer turnLimiter.Close()

	// --- Pages ---
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	r.HandleFunc("/", pageHandler.ShowIndexPage).Methods("GET")
	r.HandleFunc("/chats/{id:[0-9]+}", pageHandler.ShowChatPage).Methods("GET")

	// --- API ---
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/chats", chatHandler.ListChats).Methods("GET")
	api.HandleFunc("/chats", chatHandler.CreateChat).Methods("POST")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.GetChat).Methods("GET")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.RenameChat).Methods("PUT")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.DeleteChat).Methods("DELETE")
	api.Handle("/chat", middleware.RateLimitMiddleware(turnLimiter, "chat-turn")(
		http.HandlerFunc(chatHandler.HandleChatTurn))).Methods("POST")
	api.HandleFunc("/health", healthHandler.Health).Methods("GET")
	api.HandleFunc("/models", healthHandler.Models).Methods("GET")

	// --- Server Configuration ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	log.Printf("==================================================")
	log.Printf("homechat - local LLM chat")
	log.Printf("Server starting on port %s", cfg.ServerPort)
	log.Printf("Web interface: http://localhost:%s", cfg.ServerPort)
	log.Printf("Inference backend: %s (%s)", cfg.LLMProvider, llmConfig.BaseURL)
	log.Printf("Default model: %s", cfg.DefaultModel)
	log.Printf("==================================================")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
