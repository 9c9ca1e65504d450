package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pure-bhakti-vault-api/pkg/schema/config"
)

// OllamaEmbedder implements Embedder against an Ollama server's HTTP API
type OllamaEmbedder struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaEmbedder creates a new Ollama HTTP embedder
func NewOllamaEmbedder(cfg *config.Config) *OllamaEmbedder {
	return &OllamaEmbedder{
		baseURL:    strings.TrimRight(cfg.EmbeddingServiceURL, "/"),
		model:      cfg.EmbeddingModel,
		httpClient: &http.Client{},
	}
}

type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed generates an embedding for a single text. bge-m3 takes no task
// instruction, so taskType is ignored.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string, _ TaskType) ([]float64, error) {
	jsonBody, err := json.Marshal(ollamaEmbeddingRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, &EmbeddingError{Class: FailureConnection, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(fmt.Errorf("call embedding service: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &EmbeddingError{
			Class:      FailureStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("embedding service error: %s", strings.TrimSpace(string(body))),
		}
	}

	var embResp ollamaEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		if ctx.Err() != nil {
			return nil, classifyTransportError(ctx.Err())
		}
		return nil, &EmbeddingError{Class: FailurePayload, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(embResp.Embedding) == 0 {
		return nil, &EmbeddingError{Class: FailurePayload, Err: fmt.Errorf("response has no embedding")}
	}

	return embResp.Embedding, nil
}

// EmbedBatch embeds texts one request at a time; the embeddings endpoint takes a single prompt.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType TaskType) ([][]float64, error) {
	embeddings := make([][]float64, 0, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text, taskType)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		embeddings = append(embeddings, emb)
	}
	return embeddings, nil
}

// HealthCheck lists the server's models; any 200 response means the server is up
func (e *OllamaEmbedder) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &EmbeddingError{Class: FailureStatus, StatusCode: resp.StatusCode, Err: fmt.Errorf("health probe failed")}
	}
	return nil
}
