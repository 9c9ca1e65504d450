package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pure-bhakti-vault-api/internal/models"
	"github.com/pure-bhakti-vault-api/internal/services"
	"go.uber.org/zap"
)

// GlossarySearcher runs glossary searches
type GlossarySearcher interface {
	HybridSearch(ctx context.Context, query string, limit int, bookID *int) (*models.HybridSearchResult, error)
	SearchBookSemantic(ctx context.Context, bookID int, query string, limit int, threshold float64) ([]models.SearchResult, string, error)
}

// SearchHandler handles glossary search endpoints
type SearchHandler struct {
	searcher GlossarySearcher
	logger   *zap.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searcher GlossarySearcher, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searcher: searcher,
		logger:   logger,
	}
}

// HybridSearch handles GET /glossary/hybrid-search?query=&limit=&book_id=
func (h *SearchHandler) HybridSearch(c echo.Context) error {
	limit, err := limitParam(c)
	if err != nil {
		return err
	}

	var bookID *int
	if c.QueryParam("book_id") != "" {
		var id int
		if err := echo.QueryParamsBinder(c).Int("book_id", &id).BindError(); err != nil {
			return validationError("book_id must be an integer")
		}
		bookID = &id
	}

	res, err := h.searcher.HybridSearch(c.Request().Context(), c.QueryParam("query"), limit, bookID)
	if err != nil {
		return httpError(c, h.logger, err)
	}

	resp := models.HybridSearchResponse{
		Results:      res.Results,
		Total:        len(res.Results),
		Query:        res.Query,
		SearchMethod: res.Method,
	}
	if res.Message != "" {
		msg := res.Message
		resp.Message = &msg
	}
	return c.JSON(http.StatusOK, resp)
}

// SemanticSearch handles GET /books/:book_id/glossary/semantic-search?query=&limit=&threshold=
func (h *SearchHandler) SemanticSearch(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}
	limit, err := limitParam(c)
	if err != nil {
		return err
	}

	threshold := services.DefaultSimilarityThreshold
	if err := echo.QueryParamsBinder(c).Float64("threshold", &threshold).BindError(); err != nil {
		return validationError("threshold must be a number")
	}
	if threshold < 0 || threshold > 1 {
		return validationError("threshold must be between 0 and 1")
	}

	results, query, err := h.searcher.SearchBookSemantic(c.Request().Context(), bookID, c.QueryParam("query"), limit, threshold)
	if err != nil {
		return httpError(c, h.logger, err)
	}

	resp := models.SemanticSearchResponse{
		Results:   results,
		Total:     len(results),
		Query:     query,
		BookID:    bookID,
		Threshold: threshold,
	}
	if len(results) == 0 {
		msg := services.NoResultsMessage
		resp.Message = &msg
	}
	return c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers search routes
func (h *SearchHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/glossary/hybrid-search", h.HybridSearch)
	g.GET("/books/:book_id/glossary/semantic-search", h.SemanticSearch)
}
