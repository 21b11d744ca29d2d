package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Keys       APIKeys
	Ai         AIConfig
	Generation GenerationConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	EmbedTopic   string // Embedding topic
}

type AIConfig struct {
	LLMProvider       string // "gemini" or "ollama"
	LLMModel          string // e.g. "gemini-2.5-flash"
	OllamaBaseURL     string
	EmbeddingProvider string
}

// GenerationConfig holds pacing knobs for the generation loops. Values
// are deliberately conservative to stay inside free-tier rate limits.
type GenerationConfig struct {
	TickInterval     time.Duration // wait between infinite-session ticks
	RateLimitBackoff time.Duration // wait after a rate-limited tick
	BranchDelay      time.Duration // wait between fan-out calls
	BranchRetryWait  time.Duration // wait before the single fan-out retry
	MaxIterations    int           // infinite-session ceiling
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			EmbedTopic:   getEnv("EMBED_THOUGHT_TOPIC_NAME", "EMBED_THOUGHT"),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-2.5-flash"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
		},
		Generation: GenerationConfig{
			TickInterval:     getEnvAsDuration("GENERATION_TICK_INTERVAL", 10*time.Second),
			RateLimitBackoff: getEnvAsDuration("GENERATION_RATE_LIMIT_BACKOFF", 15*time.Second),
			BranchDelay:      getEnvAsDuration("BRANCH_CALL_DELAY", 2*time.Second),
			BranchRetryWait:  getEnvAsDuration("BRANCH_RETRY_WAIT", 10*time.Second),
			MaxIterations:    getEnvAsInt("GENERATION_MAX_ITERATIONS", 10000),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
