package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Bot      BotConfig
	Database DatabaseConfig
	Session  SessionConfig
	Ai       AIConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port        string
	Environment string
	LogFilePath string
	NatsURL     string
	RedisURL    string
}

type BotConfig struct {
	Token         string
	Mode          string // "polling" | "webhook"
	WebhookURL    string
	WebhookSecret string
	PageSize      int
	TesterIDs     []int64 // Empty means registration is open
	Debug         bool
}

type DatabaseConfig struct {
	Connection string
}

type SessionConfig struct {
	Store           string // "memory" | "redis"
	TTL             time.Duration
	EditIdleTimeout time.Duration
}

type AIConfig struct {
	LLMProvider string // "ollama" | "openai" | "groq"
	LLMModel    string
	LLMBaseURL  string
	LLMAPIKey   string
	Timeout     time.Duration
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:        getEnv("APP_PORT", "3000"),
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "logs/recipebot.log"),
			NatsURL:     getEnv("NATS_URL", ""),
			RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Bot: BotConfig{
			Token:         getEnv("BOT_TOKEN", ""),
			Mode:          getEnv("BOT_MODE", ModePolling),
			WebhookURL:    getEnv("WEBHOOK_URL", ""),
			WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
			PageSize:      getEnvAsInt("RECIPE_PAGE_SIZE", 5),
			TesterIDs:     getEnvAsInt64List("TESTER_IDS"),
			Debug:         getEnv("BOT_DEBUG", "false") == "true",
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Session: SessionConfig{
			Store:           getEnv("SESSION_STORE", "memory"),
			TTL:             getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			EditIdleTimeout: getEnvAsDuration("EDIT_IDLE_TIMEOUT", 5*time.Minute),
		},
		Ai: AIConfig{
			LLMProvider: getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:    getEnv("LLM_MODEL", "llama3"),
			LLMBaseURL:  getEnv("LLM_BASE_URL", ""),
			LLMAPIKey:   getEnv("LLM_API_KEY", ""),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 2*time.Minute),
		},
		Tracing: TracingConfig{
			Enabled:  getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

// getEnvAsDuration accepts Go durations ("5m") or plain seconds ("300").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getEnvAsInt64List(key string) []int64 {
	var out []int64
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			out = append(out, id)
		} else {
			log.Printf("[WARN] Ignoring invalid id %q in %s", part, key)
		}
	}
	return out
}
