package config

import (
	"net"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds configuration for database and embedding operations
type Config struct {
	// PostgreSQL
	PostgresURI              string
	PostgresHost             string
	PostgresPort             int
	PostgresDB               string
	PostgresUser             string
	PostgresPassword         string
	PostgresConnectTimeout   time.Duration
	PostgresStatementTimeout time.Duration

	// Embeddings
	EmbeddingProvider      string // "ollama", "langchain" or "vertex"
	EmbeddingServiceURL    string // For ollama and langchain providers
	EmbeddingModel         string
	EmbeddingDimensions    int
	EmbeddingTimeout       time.Duration
	EmbeddingHealthTimeout time.Duration

	// Vertex AI (when EmbeddingProvider = "vertex")
	GCPProjectID string
	GCPLocation  string
	VertexModel  string
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the singleton configuration instance
func GetConfig() *Config {
	once.Do(func() {
		config = loadConfig()
	})
	return config
}

func loadConfig() *Config {
	return &Config{
		// PostgreSQL
		PostgresURI:              getEnv("POSTGRES_URI", ""),
		PostgresHost:             getEnv("DATABASE_HOST", "localhost"),
		PostgresPort:             getEnvInt("DATABASE_PORT", 5432),
		PostgresDB:               getEnv("DATABASE_NAME", "pure_bhakti_vault"),
		PostgresUser:             getEnv("DATABASE_USER", "postgres"),
		PostgresPassword:         getEnv("DATABASE_PASSWORD", "postgres"),
		PostgresConnectTimeout:   getEnvSeconds("DATABASE_CONNECT_TIMEOUT", 30),
		PostgresStatementTimeout: getEnvSeconds("DATABASE_COMMAND_TIMEOUT", 60),

		// Embeddings
		EmbeddingProvider:      getEnv("EMBEDDING_PROVIDER", "ollama"),
		EmbeddingServiceURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		EmbeddingModel:         getEnv("EMBEDDING_MODEL", "bge-m3"),
		EmbeddingDimensions:    getEnvInt("EMBEDDING_DIMENSIONS", 1024),
		EmbeddingTimeout:       getEnvSeconds("EMBEDDING_TIMEOUT", 10),
		EmbeddingHealthTimeout: getEnvSeconds("EMBEDDING_HEALTH_TIMEOUT", 2),

		// Vertex AI
		GCPProjectID: getEnv("GCP_PROJECT_ID", ""),
		GCPLocation:  getEnv("GCP_LOCATION", "us-central1"),
		VertexModel:  getEnv("VERTEX_MODEL", "text-multilingual-embedding-002"),
	}
}

// DSN returns the connection string for PostgreSQL. POSTGRES_URI wins over the
// individual DATABASE_* settings when both are present.
func (c *Config) DSN() string {
	if c.PostgresURI != "" {
		return c.PostgresURI
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:   net.JoinHostPort(c.PostgresHost, strconv.Itoa(c.PostgresPort)),
		Path:   "/" + c.PostgresDB,
	}
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return i
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, defaultSeconds)) * time.Second
}
