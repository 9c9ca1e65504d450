package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/pure-bhakti-vault-api/pkg/schema/config"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
)

// LangchainEmbedder implements Embedder through langchaingo's Ollama client.
// It is an alternative to OllamaEmbedder for deployments already standardised on langchaingo.
// langchaingo talks to the batch endpoint (POST /api/embed {"model","input"}), so the
// server must be recent enough to serve it. Liveness uses the same /api/tags probe as
// OllamaEmbedder.
type LangchainEmbedder struct {
	embedder embeddings.Embedder
	probe    *OllamaEmbedder
}

// NewLangchainEmbedder creates an embedder backed by langchaingo
func NewLangchainEmbedder(cfg *config.Config) (*LangchainEmbedder, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.EmbeddingServiceURL),
		ollama.WithModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("create langchain embedder: %w", err)
	}

	return &LangchainEmbedder{embedder: embedder, probe: NewOllamaEmbedder(cfg)}, nil
}

// HealthCheck probes GET /api/tags on the Ollama server
func (e *LangchainEmbedder) HealthCheck(ctx context.Context) error {
	return e.probe.HealthCheck(ctx)
}

// Embed generates an embedding for a single text
func (e *LangchainEmbedder) Embed(ctx context.Context, text string, _ TaskType) ([]float64, error) {
	vec, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, classifyLangchainError(err)
	}
	if len(vec) == 0 {
		return nil, &EmbeddingError{Class: FailurePayload, Err: fmt.Errorf("response has no embedding")}
	}
	return float64Slice(vec), nil
}

// EmbedBatch generates embeddings for multiple texts
func (e *LangchainEmbedder) EmbedBatch(ctx context.Context, texts []string, _ TaskType) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	vecs, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, classifyLangchainError(err)
	}
	if len(vecs) != len(texts) {
		return nil, payloadError("got %d embeddings for %d texts", len(vecs), len(texts))
	}

	out := make([][]float64, len(vecs))
	for i, v := range vecs {
		out[i] = float64Slice(v)
	}
	return out, nil
}

// classifyLangchainError separates langchaingo's empty or partial responses from
// transport failures.
func classifyLangchainError(err error) *EmbeddingError {
	if errors.Is(err, ollama.ErrEmptyResponse) || errors.Is(err, ollama.ErrIncompleteEmbedding) {
		return &EmbeddingError{Class: FailurePayload, Err: err}
	}
	return classifyTransportError(err)
}

func float64Slice(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}
