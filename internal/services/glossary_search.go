package services

import (
	"context"
	"fmt"

	"github.com/pure-bhakti-vault-api/internal/logger"
	"github.com/pure-bhakti-vault-api/internal/metrics"
	"github.com/pure-bhakti-vault-api/internal/models"
	"github.com/pure-bhakti-vault-api/internal/moderation"
	"github.com/pure-bhakti-vault-api/internal/repository"
	"go.uber.org/zap"
)

// DefaultSimilarityThreshold is the minimum similarity a vector hit needs, for both
// hybrid search and single-book semantic search.
const DefaultSimilarityThreshold = 0.5

// NoResultsMessage is attached to a hybrid search answer with no results.
const NoResultsMessage = "No matching terms found. Try different words or check spelling."

// QueryFilter normalizes and moderates user queries
type QueryFilter interface {
	Sanitize(raw string) string
	Check(text string) moderation.Verdict
}

// QueryEmbedder turns a query into a vector. Any error means "no vector".
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float64, error)
}

// GlossarySearchService combines vector and text search over glossary terms
type GlossarySearchService struct {
	filter     QueryFilter
	embedder   QueryEmbedder
	vectorRepo repository.VectorSearchRepository
	glossary   repository.GlossaryRepository
	books      repository.BookRepository
	logger     *zap.Logger
}

// NewGlossarySearchService creates a new glossary search service
func NewGlossarySearchService(
	filter QueryFilter,
	embedder QueryEmbedder,
	vectorRepo repository.VectorSearchRepository,
	glossary repository.GlossaryRepository,
	books repository.BookRepository,
	log *zap.Logger,
) *GlossarySearchService {
	if log == nil {
		log = zap.NewNop()
	}
	return &GlossarySearchService{
		filter:     filter,
		embedder:   embedder,
		vectorRepo: vectorRepo,
		glossary:   glossary,
		books:      books,
		logger:     log,
	}
}

// HybridSearch answers a free-text glossary query. It tries vector search first and
// falls back to text search when no vector is available or nothing clears the
// similarity threshold. Embedding and vector store failures never fail the request.
func (s *GlossarySearchService) HybridSearch(ctx context.Context, query string, limit int, bookID *int) (*models.HybridSearchResult, error) {
	log := logger.FromContext(ctx, s.logger)

	clean, err := s.screen(ctx, query)
	if err != nil {
		return nil, err
	}
	if bookID != nil {
		if err := s.requireBook(ctx, *bookID); err != nil {
			return nil, err
		}
	}

	result := &models.HybridSearchResult{Query: clean, Results: []models.SearchResult{}}

	if vec := s.safeEmbed(ctx, clean); vec != nil {
		rows, err := s.vectorRepo.SearchByVector(ctx, vec, limit, bookID, DefaultSimilarityThreshold)
		if err != nil {
			log.Warn("vector search failed, falling back to text search", zap.Error(err))
		} else if len(rows) > 0 {
			result.Results = rows
			result.Method = models.SearchMethodSemantic
		}
	}

	if result.Method == "" {
		rows, err := s.glossary.SearchByText(ctx, clean, limit, bookID)
		if err != nil {
			return nil, fmt.Errorf("text search: %w", err)
		}
		if rows != nil {
			result.Results = rows
		}
		result.Method = models.SearchMethodText
	}

	if len(result.Results) == 0 {
		result.Message = NoResultsMessage
	}

	metrics.GlossarySearchTotal.WithLabelValues(string(result.Method)).Inc()
	log.Debug("glossary search",
		zap.String("method", string(result.Method)),
		zap.Int("results", len(result.Results)),
	)
	return result, nil
}

// SearchBookSemantic runs vector search only, within one book. It returns
// ErrUpstreamUnavailable when the query could not be embedded.
func (s *GlossarySearchService) SearchBookSemantic(ctx context.Context, bookID int, query string, limit int, threshold float64) ([]models.SearchResult, string, error) {
	clean, err := s.screen(ctx, query)
	if err != nil {
		return nil, "", err
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return nil, "", err
	}

	vec := s.safeEmbed(ctx, clean)
	if vec == nil {
		return nil, clean, ErrUpstreamUnavailable
	}

	rows, err := s.vectorRepo.SearchByVector(ctx, vec, limit, &bookID, threshold)
	if err != nil {
		return nil, clean, fmt.Errorf("semantic search book %d: %w", bookID, err)
	}
	if rows == nil {
		rows = []models.SearchResult{}
	}
	metrics.GlossarySearchTotal.WithLabelValues(string(models.SearchMethodSemantic)).Inc()
	return rows, clean, nil
}

// screen sanitizes and moderates a query
func (s *GlossarySearchService) screen(ctx context.Context, query string) (string, error) {
	clean := s.filter.Sanitize(query)
	if verdict := s.filter.Check(clean); !verdict.Appropriate {
		metrics.GlossarySearchRejectedTotal.WithLabelValues(verdict.Reason).Inc()
		logger.FromContext(ctx, s.logger).Info("query rejected by content filter",
			zap.String("reason", verdict.Reason),
		)
		return "", &RejectedQueryError{Reason: verdict.Reason}
	}
	return clean, nil
}

func (s *GlossarySearchService) requireBook(ctx context.Context, bookID int) error {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return fmt.Errorf("check book: %w", err)
	}
	if book == nil {
		return fmt.Errorf("book %d: %w", bookID, ErrNotFound)
	}
	return nil
}

// safeEmbed returns nil instead of failing, including when the embedder panics
func (s *GlossarySearchService) safeEmbed(ctx context.Context, text string) (vec []float64) {
	if s.embedder == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx, s.logger).Error("embedder panicked", zap.Any("panic", r))
			vec = nil
		}
	}()

	v, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil || len(v) == 0 {
		return nil
	}
	return v
}
