package config

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// API Settings
	APITitle   string
	APIVersion string
	APIPrefix  string
	Port       string

	// Environment: "development" or "production". Drives logger format and CORS.
	Environment string
	LogLevel    string

	// CORS
	CORSOrigins []string

	// Content filter
	BlockedWordsPath string

	// Vector Search Backend: "pgvector" or "vertex"
	VectorBackend string

	// Vertex AI Vector Search settings (used when VectorBackend = "vertex")
	VertexProjectID            string
	VertexLocation             string
	VertexIndexEndpointID      string
	VertexDeployedIndexID      string
	VertexPublicEndpointDomain string
}

var (
	config *Config
	once   sync.Once
)

// defaultCORSOrigins are the web, production and mobile origins the API has always served.
var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:5173",
	"http://localhost:8080",
	"http://127.0.0.1:3000",
	"https://localhost:3000",
	"https://www.purebhaktibase.com",
	"https://purebhaktibase.com",
	"https://api.purebhaktibase.com",
	"https://app.purebhaktibase.com",
	"http://localhost",
	"http://10.0.2.2:8081",
}

// GetConfig returns the singleton configuration instance
func GetConfig() *Config {
	once.Do(func() {
		config = loadConfig()
	})
	return config
}

func loadConfig() *Config {
	env := getEnv("ENVIRONMENT", "development")
	return &Config{
		APITitle:    getEnv("API_TITLE", "Pure Bhakti Vault API"),
		APIVersion:  getEnv("API_VERSION", "1.0.0"),
		APIPrefix:   getEnv("API_PREFIX", "/api/v1"),
		Port:        getEnv("PORT", "8000"),
		Environment: env,
		LogLevel:    getEnv("LOG_LEVEL", ""),
		CORSOrigins: resolveCORSOrigins(env, getEnv("CORS_ORIGINS", "")),

		BlockedWordsPath: getEnv("BLOCKED_WORDS_PATH", "data/blocked_words.txt"),

		// Vector search backend configuration
		VectorBackend: getEnv("VECTOR_BACKEND", "pgvector"), // "pgvector" or "vertex"

		// Vertex AI settings
		VertexProjectID:            getEnv("VERTEX_PROJECT_ID", ""),
		VertexLocation:             getEnv("VERTEX_LOCATION", "us-central1"),
		VertexIndexEndpointID:      getEnv("VERTEX_INDEX_ENDPOINT_ID", ""),
		VertexDeployedIndexID:      getEnv("VERTEX_DEPLOYED_INDEX_ID", ""),
		VertexPublicEndpointDomain: getEnv("VERTEX_PUBLIC_ENDPOINT_DOMAIN", ""),
	}
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// resolveCORSOrigins allows every origin in development; otherwise it merges the
// built-in origins with CORS_ORIGINS and drops duplicates.
func resolveCORSOrigins(env, custom string) []string {
	if env == "development" {
		return []string{"*"}
	}

	seen := make(map[string]bool)
	origins := make([]string, 0, len(defaultCORSOrigins))
	for _, o := range append(append([]string{}, defaultCORSOrigins...), parseCORSOrigins(custom)...) {
		if !seen[o] {
			seen[o] = true
			origins = append(origins, o)
		}
	}
	return origins
}

func parseCORSOrigins(value string) []string {
	if value == "" {
		return nil
	}
	var origins []string
	if err := json.Unmarshal([]byte(value), &origins); err == nil {
		return origins
	}
	parts := strings.Split(value, ",")
	origins = make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
