package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const RequestIDKey = "X-Request-ID"

// FromContext retrieves the request-scoped logger from echo.Context
func FromContext(c echo.Context) *zap.Logger {
	// The request ID middleware puts a scoped logger in the context
	if scoped, ok := c.Get("logger").(*zap.Logger); ok {
		return scoped
	}

	// Otherwise, fall back to the global logger with the request ID
	requestID := c.Request().Header.Get(RequestIDKey)
	if requestID == "" {
		requestID = "unknown"
	}
	return GetLogger().With(zap.String("request_id", requestID))
}
