package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/service"
)

// writeServiceError maps service-layer sentinel errors onto HTTP responses.
// Unrecognized errors are logged and reported as a 500 with a generic message.
func writeServiceError(c echo.Context, log *zap.Logger, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientStock):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConstraintViolation):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}

	log.Error(fallback, zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
}
