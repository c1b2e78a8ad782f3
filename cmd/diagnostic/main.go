// File: cmd/diagnostic/main.go
//
// Standalone connectivity probe: opens the chat database and talks to
// the configured inference backend, reporting each step. Useful when
// the web UI only says "backend unavailable".
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/homellm/homechat/internal/config"
	"github.com/homellm/homechat/internal/domain"
	"github.com/homellm/homechat/internal/services/llm"
)

var (
	ok   = color.New(color.FgGreen).SprintFunc()
	bad  = color.New(color.FgRed).SprintFunc()
	warn = color.New(color.FgYellow).SprintFunc()
)

func main() {
	fmt.Println("homechat diagnostic")
	fmt.Println("===================")

	cfg := config.Load()
	failed := false

	// --- Database ---
	fmt.Printf("Database (%s): ", cfg.DBPath)
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		fmt.Println(bad("FAIL"), err)
		failed = true
	} else if err := db.AutoMigrate(&domain.Chat{}, &domain.Message{}); err != nil {
		fmt.Println(bad("FAIL"), "migration:", err)
		failed = true
	} else {
		var chats int64
		db.Model(&domain.Chat{}).Count(&chats)
		fmt.Printf("%s (%d chats)\n", ok("OK"), chats)
	}

	// --- Inference backend ---
	llmConfig := llm.DefaultConfig()
	llmConfig.ProviderName = cfg.LLMProvider
	switch cfg.LLMProvider {
	case "openai":
		llmConfig.BaseURL = cfg.OpenAIBaseURL
		llmConfig.APIKey = cfg.OpenAIAPIKey
	default:
		llmConfig.BaseURL = cfg.OllamaBaseURL
	}

	fmt.Printf("Provider (%s at %s): ", cfg.LLMProvider, llmConfig.BaseURL)
	provider, err := llm.NewProvider(llmConfig)
	if err != nil {
		fmt.Println(bad("FAIL"), err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := provider.HealthCheck(ctx); err != nil {
		fmt.Println(bad("FAIL"), err)
		failed = true
	} else {
		fmt.Println(ok("OK"))

		models, err := provider.ListModels(ctx)
		if err != nil {
			fmt.Println("Models:", warn("unavailable"), err)
		} else {
			fmt.Printf("Models: %s (%d installed)\n", ok("OK"), len(models))
			hasDefault := false
			for _, m := range models {
				if m == cfg.DefaultModel {
					hasDefault = true
				}
				fmt.Printf("  - %s\n", m)
			}
			if !hasDefault {
				fmt.Printf("  %s default model %q is not installed\n", warn("warning:"), cfg.DefaultModel)
			}
		}
	}

	if failed {
		fmt.Println(bad("\nDiagnostic finished with failures"))
		os.Exit(1)
	}
	fmt.Println(ok("\nAll checks passed"))
}
