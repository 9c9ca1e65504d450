package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pure-bhakti-vault-api/internal/metrics"
	"github.com/pure-bhakti-vault-api/pkg/schema/config"
	"go.uber.org/zap"
)

// logPrefixRunes bounds how much of a query ends up in failure logs
const logPrefixRunes = 50

// EmbeddingsService handles text embedding operations using a pluggable backend.
// Every failure is logged and returned as an error matching ErrEmbeddingUnavailable.
type EmbeddingsService struct {
	embedder      Embedder
	provider      string
	model         string
	dimensions    int
	timeout       time.Duration
	healthTimeout time.Duration
	logger        *zap.Logger
}

// NewEmbeddingsService wraps embedder with the timeouts and dimension from cfg
func NewEmbeddingsService(cfg *config.Config, embedder Embedder, logger *zap.Logger) *EmbeddingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmbeddingsService{
		embedder:      embedder,
		provider:      cfg.EmbeddingProvider,
		model:         cfg.EmbeddingModel,
		dimensions:    cfg.EmbeddingDimensions,
		timeout:       cfg.EmbeddingTimeout,
		healthTimeout: cfg.EmbeddingHealthTimeout,
		logger:        logger.With(zap.String("component", "embeddings"), zap.String("provider", cfg.EmbeddingProvider)),
	}
}

// NewEmbedder builds the backend selected by cfg.EmbeddingProvider
func NewEmbedder(ctx context.Context, cfg *config.Config) (Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "vertex":
		embedder, err := NewVertexEmbedder(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create Vertex AI embedder: %w", err)
		}
		return embedder, nil
	case "langchain":
		return NewLangchainEmbedder(cfg)
	case "ollama", "":
		return NewOllamaEmbedder(cfg), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
	}
}

var (
	embeddingsService *EmbeddingsService
	embeddingsOnce    sync.Once
	initErr           error
)

// GetEmbeddingsService returns the singleton embeddings service for the
// environment configuration. Use GetInitError to check for construction failures.
func GetEmbeddingsService(logger *zap.Logger) *EmbeddingsService {
	embeddingsOnce.Do(func() {
		cfg := config.GetConfig()
		embedder, err := NewEmbedder(context.Background(), cfg)
		if err != nil {
			initErr = err
			return
		}
		embeddingsService = NewEmbeddingsService(cfg, embedder, logger)
	})
	return embeddingsService
}

// GetInitError returns any error that occurred during initialization
func GetInitError() error {
	return initErr
}

// EmbedQuery embeds a search query. The call is bounded by the configured timeout
// and the vector must have the configured dimension.
func (s *EmbeddingsService) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	return s.embed(ctx, text, TaskTypeQuery)
}

// EmbedDocument embeds glossary text for storage
func (s *EmbeddingsService) EmbedDocument(ctx context.Context, text string) ([]float64, error) {
	return s.embed(ctx, text, TaskTypeDocument)
}

func (s *EmbeddingsService) embed(ctx context.Context, text string, taskType TaskType) ([]float64, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	vec, err := s.embedder.Embed(ctx, text, taskType)
	metrics.EmbeddingRequestDuration.WithLabelValues(s.provider, s.model).Observe(time.Since(start).Seconds())

	if err == nil && s.dimensions > 0 && len(vec) != s.dimensions {
		err = &EmbeddingError{
			Class: FailureDimension,
			Err:   fmt.Errorf("got %d dimensions, want %d", len(vec), s.dimensions),
		}
	}
	if err != nil {
		ee := classifyTransportError(err)
		metrics.EmbeddingRequestsTotal.WithLabelValues(s.provider, s.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(s.provider, s.model, string(ee.Class)).Inc()
		s.logger.Warn("embedding failed",
			zap.String("text_prefix", prefix(text, logPrefixRunes)),
			zap.String("failure", string(ee.Class)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("embed text: %w", ee)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(s.provider, s.model, "ok").Inc()
	return vec, nil
}

// IsHealthy reports whether the embedding backend answers a liveness probe
// within the health timeout. Backends without a probe count as healthy.
func (s *EmbeddingsService) IsHealthy(ctx context.Context) bool {
	checker, ok := s.embedder.(HealthChecker)
	if !ok {
		return true
	}

	if s.healthTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.healthTimeout)
		defer cancel()
	}

	if err := checker.HealthCheck(ctx); err != nil {
		s.logger.Debug("embedding health probe failed", zap.Error(err))
		return false
	}
	return true
}

// Model returns the configured embedding model name
func (s *EmbeddingsService) Model() string {
	return s.model
}

func prefix(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}
