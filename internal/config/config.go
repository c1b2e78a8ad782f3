// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	DBPath     string

	// Inference backend
	LLMProvider   string // "ollama" or "openai"
	OllamaBaseURL string
	OpenAIBaseURL string
	OpenAIAPIKey  string
	DefaultModel  string

	// Sampling
	MaxTokens   int
	Temperature float64
	TopP        float64

	// How many recent exchanges are replayed to the backend per turn.
	ChatHistoryLimit int

	Environment string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "homechat.db"),
		LLMProvider:      strings.ToLower(getEnv("LLM_PROVIDER", "ollama")),
		OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		DefaultModel:     getEnv("DEFAULT_MODEL", "llama2:7b"),
		MaxTokens:        getEnvAsInt("MAX_TOKENS", 2048),
		Temperature:      getEnvAsFloat("TEMPERATURE", 0.3),
		TopP:             getEnvAsFloat("TOP_P", 0.9),
		ChatHistoryLimit: getEnvAsInt("CHAT_HISTORY_LIMIT", 50),
		Environment:      env,
	}

	if cfg.LLMProvider == "openai" && cfg.OpenAIAPIKey == "" {
		log.Fatalf("LLM_PROVIDER=openai requires OPENAI_API_KEY to be set")
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

// getEnvAsFloat gets an env var as a float, with a fallback.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as float. Using default value.", key)
		return defaultValue
	}
	return floatValue
}
