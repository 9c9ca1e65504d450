package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pure-bhakti-vault-api/pkg/schema/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func langchainConfig(url string) *config.Config {
	cfg := testConfig(url)
	cfg.EmbeddingProvider = "langchain"
	return cfg
}

func newLangchainService(t *testing.T, url string) *EmbeddingsService {
	t.Helper()
	cfg := langchainConfig(url)
	embedder, err := NewEmbedder(context.Background(), cfg)
	require.NoError(t, err)
	require.IsType(t, &LangchainEmbedder{}, embedder)
	return NewEmbeddingsService(cfg, embedder, zap.NewNop())
}

func TestLangchainEmbedder_EmbedQuery(t *testing.T) {
	var model string
	srv := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/embed", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		model, _ = body["model"].(string)
		_, _ = w.Write([]byte(`{"model":"bge-m3","embeddings":[[0.1,0.2,0.3]]}`))
	})

	svc := newLangchainService(t, srv.URL)
	vec, err := svc.EmbedQuery(context.Background(), "sankīrtana")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.1, 0.2, 0.3}, vec, 1e-6)
	assert.Equal(t, "bge-m3", model)
}

func TestLangchainEmbedder_Failures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"model not loaded"}`))
		})

		_, err := newLangchainService(t, srv.URL).EmbedQuery(context.Background(), "a query")
		assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
	})

	t.Run("empty payload", func(t *testing.T) {
		srv := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"model":"bge-m3","embeddings":[]}`))
		})

		_, err := newLangchainService(t, srv.URL).EmbedQuery(context.Background(), "a query")
		var ee *EmbeddingError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, FailurePayload, ee.Class)
		assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
	})
}

func TestLangchainEmbedder_IsHealthy(t *testing.T) {
	t.Run("server down", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		assert.False(t, newLangchainService(t, url).IsHealthy(context.Background()))
	})

	t.Run("server up", func(t *testing.T) {
		srv := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/tags", r.URL.Path)
			_, _ = w.Write([]byte(`{"models":[]}`))
		})

		assert.True(t, newLangchainService(t, srv.URL).IsHealthy(context.Background()))
	})
}
