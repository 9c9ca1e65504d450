package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pure-bhakti-vault-api/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	e := echo.New()
	e.Use(echomiddleware.RequestID())
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/books/:book_id", func(c echo.Context) error {
		logger.FromContext(c.Request().Context(), nil).Info("inside handler")
		return echo.NewHTTPError(http.StatusNotFound, "Book not found")
	})

	req := httptest.NewRequest(http.MethodGet, "/books/9999", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, 2, logs.Len())

	inside := logs.All()[0]
	assert.Equal(t, "inside handler", inside.Message)
	assert.Equal(t, "req-123", inside.ContextMap()["request_id"])

	line := logs.All()[1]
	assert.Equal(t, "http_request", line.Message)
	fields := line.ContextMap()
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	assert.Equal(t, "/books/:book_id", fields["route"])
	assert.Equal(t, "req-123", fields["request_id"])
}

func TestCORSMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(CORSMiddleware([]string{"https://purebhaktibase.com"}))
	e.GET("/books", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/books", nil)
	req.Header.Set(echo.HeaderOrigin, "https://purebhaktibase.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://purebhaktibase.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), "DELETE")

	req = httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
