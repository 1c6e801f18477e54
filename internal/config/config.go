package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Ollama collaborator
	OllamaBaseURL    string
	OllamaModel      string
	OllamaEmbedModel string

	ServerPort string
	ServerHost string

	// Chunking and retrieval
	ChunkSize        int
	ChunkOverlap     int
	RetrievalTopK    int
	ContextExchanges int

	// Chat sessions
	SessionMaxTurns int

	// Google integration (optional - calendar and email actions are disabled
	// when the credential files are missing)
	GoogleCredentialsFile string
	GoogleTokenFile       string

	// Observability
	JaegerEndpoint string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "knowledge_agent"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:      getEnv("OLLAMA_MODEL", "llama3.2"),
		OllamaEmbedModel: getEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text"),

		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "localhost"),

		ChunkSize:        getEnvInt("CHUNK_SIZE", 500),
		ChunkOverlap:     getEnvInt("CHUNK_OVERLAP", 50),
		RetrievalTopK:    getEnvInt("RETRIEVAL_TOP_K", 3),
		ContextExchanges: getEnvInt("CONTEXT_EXCHANGES", 3),

		SessionMaxTurns: getEnvInt("SESSION_MAX_TURNS", 50),

		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		GoogleTokenFile:       getEnv("GOOGLE_TOKEN_FILE", ""),

		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
	}

	return cfg, nil
}

func (c *Config) DatabaseURL() string {
	return "host=" + c.DBHost +
		" port=" + c.DBPort +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" sslmode=" + c.DBSSLMode
}

// GoogleEnabled reports whether calendar/email integration is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleCredentialsFile != "" && c.GoogleTokenFile != ""
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
