package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pure-bhakti-vault-api/pkg/schema/db"
)

// ServiceName identifies this service in health responses
const ServiceName = "pure-bhakti-apis"

// EmbeddingsProbe reports whether the embedding backend is reachable
type EmbeddingsProbe interface {
	IsHealthy(ctx context.Context) bool
	Model() string
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	embeddings EmbeddingsProbe
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(embeddings EmbeddingsProbe) *HealthHandler {
	return &HealthHandler{embeddings: embeddings}
}

// HealthResponse is the response for basic health check
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// DatabaseHealthResponse is the response for database health check
type DatabaseHealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// EmbeddingsHealthResponse is the response for the embedding backend health check
type EmbeddingsHealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
	})
}

// PostgresHealth handles GET /health/postgres
func (h *HealthHandler) PostgresHealth(c echo.Context) error {
	if !db.PostgresEnabled() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_configured",
			"error":  "PostgreSQL is not configured",
		})
	}

	pgDB := db.GetPostgres()
	if pgDB == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "error",
			"error":  "PostgreSQL connection not available",
		})
	}

	if err := pgDB.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, DatabaseHealthResponse{
		Status:   "connected",
		Database: "postgres",
	})
}

// EmbeddingsHealth handles GET /health/embeddings. An unreachable backend is
// reported as degraded: search still works through the text fallback.
func (h *HealthHandler) EmbeddingsHealth(c echo.Context) error {
	if h.embeddings == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_configured",
			"error":  "Embedding service is not configured",
		})
	}

	if !h.embeddings.IsHealthy(c.Request().Context()) {
		return c.JSON(http.StatusServiceUnavailable, EmbeddingsHealthResponse{
			Status: "degraded",
			Model:  h.embeddings.Model(),
		})
	}

	return c.JSON(http.StatusOK, EmbeddingsHealthResponse{
		Status: "available",
		Model:  h.embeddings.Model(),
	})
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/health", h.Health)
	g.GET("/health/postgres", h.PostgresHealth)
	g.GET("/health/embeddings", h.EmbeddingsHealth)
}
