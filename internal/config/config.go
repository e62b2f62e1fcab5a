package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	OpenAI   OpenAIConfig
	Qdrant   QdrantConfig
	Mem0     Mem0Config
	Ai       AIConfig
	Session  SessionConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JWTSecret          string
	AccessTokenMinutes int
}

// Secret returns the signing key. Issuing and verifying must agree on
// the fallback, otherwise tokens minted without JWT_SECRET set would
// never verify.
func (c *AuthConfig) Secret() string {
	if c.JWTSecret == "" {
		return "default_secret"
	}
	return c.JWTSecret
}

type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	MaxTokens      int
	Temperature    float64
}

type QdrantConfig struct {
	URL                string
	APIKey             string
	OfferingCollection string
	FAQCollection      string
	VectorSize         int
}

type Mem0Config struct {
	APIKey  string
	BaseURL string
}

// AIConfig selects the providers used for generation and embedding.
// "openai" talks to the hosted API, "ollama" to a local instance.
type AIConfig struct {
	LLMProvider       string
	LLMModel          string
	EmbeddingProvider string
	OllamaBaseURL     string
	OllamaModel       string
}

type SessionConfig struct {
	TTLHours         int
	SweepIntervalMin int
	ShortTermWindow  int
	ShortTermTTLSec  int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JWTSecret:          getEnv("JWT_SECRET", ""),
			AccessTokenMinutes: getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			BaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			ChatModel:      getEnv("OPENAI_MODEL", "gpt-4.1-nano"),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-ada-002"),
			MaxTokens:      getEnvAsInt("OPENAI_MAX_TOKENS", 1000),
			Temperature:    getEnvAsFloat("OPENAI_TEMPERATURE", 0.7),
		},
		Qdrant: QdrantConfig{
			URL:                getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:             getEnv("QDRANT_API_KEY", ""),
			OfferingCollection: getEnv("QDRANT_OFFERING_COLLECTION", "dextrends_offerings"),
			FAQCollection:      getEnv("QDRANT_FAQ_COLLECTION", "dextrends_faq"),
			VectorSize:         getEnvAsInt("QDRANT_VECTOR_SIZE", 1536),
		},
		Mem0: Mem0Config{
			APIKey:  getEnv("MEM0_API_KEY", ""),
			BaseURL: getEnv("MEM0_BASE_URL", "https://api.mem0.ai"),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4.1-nano"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Session: SessionConfig{
			TTLHours:         getEnvAsInt("SESSION_TTL_HOURS", 24),
			SweepIntervalMin: getEnvAsInt("SESSION_SWEEP_INTERVAL_MINUTES", 30),
			ShortTermWindow:  getEnvAsInt("SHORT_TERM_MEMORY_WINDOW", 5),
			ShortTermTTLSec:  getEnvAsInt("SHORT_TERM_MEMORY_TTL_SECONDS", 3600),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
