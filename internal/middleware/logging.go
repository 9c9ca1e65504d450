package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pure-bhakti-vault-api/internal/logger"
	"go.uber.org/zap"
)

// RequestLogger attaches a request-scoped logger to the request context and emits one
// canonical log line per request. It must run after echo's RequestID middleware.
func RequestLogger(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			reqLogger := base.With(zap.String("request_id", requestID))
			c.SetRequest(req.WithContext(logger.ContextWithLogger(req.Context(), reqLogger)))

			err := next(c)
			if err != nil {
				// Let echo write the error response so the logged status is final.
				c.Error(err)
			}

			reqLogger.Info("http_request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("route", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
				zap.String("user_agent", req.UserAgent()),
				zap.Int64("response_bytes", c.Response().Size),
			)
			return nil
		}
	}
}
