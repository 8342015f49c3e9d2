package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the gateway
type Config struct {
	// Server
	Port string
	Env  string

	// Durable store (deployments)
	DatabaseURL string

	// Counter store (rate limiting)
	RedisURL string

	// Backend API Keys
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string

	// Local model daemon
	OllamaURL string

	// Generation
	AttemptTimeout time.Duration

	// Rate Limiting
	GenerateRateLimit int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		OllamaURL:         getEnv("OLLAMA_URL", "http://localhost:11434"),
		AttemptTimeout:    time.Duration(getEnvInt("ATTEMPT_TIMEOUT_SECONDS", 45)) * time.Second,
		GenerateRateLimit: getEnvInt("GENERATE_RATE_LIMIT", 10),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	// No backend API key is required: the template fallback keeps the
	// service functional even with zero configured backends.

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
