package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCORSOrigins_Development(t *testing.T) {
	origins := resolveCORSOrigins("development", "https://example.org")
	assert.Equal(t, []string{"*"}, origins)
}

func TestResolveCORSOrigins_MergesCustom(t *testing.T) {
	origins := resolveCORSOrigins("production", "https://example.org, https://purebhaktibase.com")

	assert.Contains(t, origins, "https://example.org")
	assert.Contains(t, origins, "https://app.purebhaktibase.com")

	count := 0
	for _, o := range origins {
		if o == "https://purebhaktibase.com" {
			count++
		}
	}
	assert.Equal(t, 1, count, "duplicate origins should be dropped")
}

func TestParseCORSOrigins(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"empty", "", nil},
		{"json array", `["https://a.com","https://b.com"]`, []string{"https://a.com", "https://b.com"}},
		{"comma list", "https://a.com, ,https://b.com", []string{"https://a.com", "https://b.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCORSOrigins(tt.value))
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("VECTOR_BACKEND", "")
	t.Setenv("BLOCKED_WORDS_PATH", "")

	cfg := loadConfig()
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "pgvector", cfg.VectorBackend)
	assert.Equal(t, "data/blocked_words.txt", cfg.BlockedWordsPath)
	assert.True(t, cfg.IsDevelopment())
}
