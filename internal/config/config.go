package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerHost string
	ServerPort string

	// Document store
	PortfolioFile string
	BackupDir     string

	// Admin panel credentials (basic auth)
	AdminUser     string
	AdminPassword string

	// AI provider selection. Empty means no provider: the chat pipeline
	// degrades to keyword retrieval and templated answers.
	AIProvider string

	OpenAIAPIKey         string
	OpenAIChatModel      string
	OpenAIEmbeddingModel string

	OllamaBaseURL        string
	OllamaChatModel      string
	OllamaEmbeddingModel string

	// Bound on concurrent embedding calls during a cache rebuild.
	EmbedWorkers int

	// Completion budget for the responder.
	MaxAnswerTokens int

	// Observability
	JaegerEndpoint string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		ServerHost: getEnv("SERVER_HOST", "localhost"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		PortfolioFile: getEnv("PORTFOLIO_FILE", "data/portfolio.json"),
		BackupDir:     getEnv("BACKUP_DIR", "data/backups"),

		AdminUser:     getEnv("ADMIN_USER", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		AIProvider: getEnv("AI_PROVIDER", ""),

		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenAIChatModel:      getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		OpenAIEmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),

		OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaChatModel:      getEnv("OLLAMA_CHAT_MODEL", "llama3.2"),
		OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),

		EmbedWorkers:    getEnvInt("EMBED_WORKERS", 5),
		MaxAnswerTokens: getEnvInt("MAX_ANSWER_TOKENS", 500),

		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
	}

	// A missing API key is not fatal here: the provider factory hands out
	// a disabled provider and the chat pipeline stays available.
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
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
