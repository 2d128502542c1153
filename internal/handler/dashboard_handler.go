package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront-service/internal/service"
	"storefront-service/pkg/logger"
)

// DashboardHandler serves the admin landing page aggregates
type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats returns total sales, recent order and customer counts, top sellers
// and the latest orders
func (h *DashboardHandler) Stats(c echo.Context) error {
	log := logger.FromContext(c)

	stats, err := h.dashboard.Stats(c.Request().Context())
	if err != nil {
		return writeServiceError(c, log, err, "Failed to compute dashboard stats")
	}
	return c.JSON(http.StatusOK, stats)
}
