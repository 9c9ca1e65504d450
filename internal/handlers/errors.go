package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pure-bhakti-vault-api/internal/logger"
	"github.com/pure-bhakti-vault-api/internal/services"
	"go.uber.org/zap"
)

// Client-facing error messages
const (
	MsgRespectfulLanguage = "Please use respectful language when searching sacred texts."
	MsgBookNotFound       = "Book not found"
	MsgEmbeddingsDown     = "Semantic search is temporarily unavailable"
	MsgInternal           = "Internal server error"
)

// httpError maps a service error to an echo.HTTPError. Rejection reasons and
// internal errors are logged but never returned to the client.
func httpError(c echo.Context, fallback *zap.Logger, err error) error {
	log := logger.FromContext(c.Request().Context(), fallback)

	var rejected *services.RejectedQueryError
	switch {
	case errors.As(err, &rejected):
		log.Info("search query rejected", zap.String("reason", rejected.Reason))
		return echo.NewHTTPError(http.StatusBadRequest, MsgRespectfulLanguage)
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, MsgBookNotFound)
	case errors.Is(err, services.ErrUpstreamUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, MsgEmbeddingsDown)
	default:
		log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternal)
	}
}
