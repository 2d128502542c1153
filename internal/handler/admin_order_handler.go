package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/service"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"
)

// OrderEventRequest defines the structure for order transition requests
type OrderEventRequest struct {
	Event string `json:"event"`
}

// AdminOrderHandler serves the back-office order routes
type AdminOrderHandler struct {
	orders *service.OrderService
}

func NewAdminOrderHandler(orders *service.OrderService) *AdminOrderHandler {
	return &AdminOrderHandler{orders: orders}
}

// ListOrders returns orders across all users with optional status,
// payment status and search filters
func (h *AdminOrderHandler) ListOrders(c echo.Context) error {
	log := logger.FromContext(c)

	filter := service.OrderListFilter{
		Status:        c.QueryParam("status"),
		PaymentStatus: c.QueryParam("payment_status"),
		Search:        c.QueryParam("search"),
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	orders, total, err := h.orders.List(c.Request().Context(), filter)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to list orders")
	}

	log.Info("Admin order listing", zap.Int("count", len(orders)), zap.Int64("total", total))
	return c.JSON(http.StatusOK, echo.Map{"orders": orders, "total": total})
}

// GetOrder returns any order with its lines, customer, address and slot
func (h *AdminOrderHandler) GetOrder(c echo.Context) error {
	log := logger.FromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	order, err := h.orders.Get(c.Request().Context(), uint(orderID))
	if err != nil {
		return writeServiceError(c, log, err, "Failed to load order")
	}
	return c.JSON(http.StatusOK, order)
}

// FireStatusEvent applies a fulfillment event (process, ship, deliver,
// cancel) to an order
func (h *AdminOrderHandler) FireStatusEvent(c echo.Context) error {
	log := logger.FromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	var req OrderEventRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	order, err := h.orders.FireFulfillmentEvent(c.Request().Context(), uint(orderID), req.Event)
	if err != nil {
		prometheus.InvalidTransitionCounter.Inc()
		log.Warn("Order transition rejected",
			zap.Uint64("order_id", orderID),
			zap.String("event", req.Event),
			zap.Error(err))
		return writeServiceError(c, log, err, "Failed to transition order")
	}

	prometheus.RecordOrderTransition(req.Event)
	log.Info("Order transitioned",
		zap.Uint("order_id", order.ID),
		zap.String("event", req.Event),
		zap.String("status", order.Status))
	return c.JSON(http.StatusOK, order)
}

// FirePaymentEvent applies a payment event (pay, refund) to an order
func (h *AdminOrderHandler) FirePaymentEvent(c echo.Context) error {
	log := logger.FromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	var req OrderEventRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	order, err := h.orders.FirePaymentEvent(c.Request().Context(), uint(orderID), req.Event)
	if err != nil {
		prometheus.InvalidTransitionCounter.Inc()
		log.Warn("Payment transition rejected",
			zap.Uint64("order_id", orderID),
			zap.String("event", req.Event),
			zap.Error(err))
		return writeServiceError(c, log, err, "Failed to transition payment")
	}

	prometheus.RecordOrderTransition(req.Event)
	log.Info("Payment transitioned",
		zap.Uint("order_id", order.ID),
		zap.String("event", req.Event),
		zap.String("payment_status", order.PaymentStatus))
	return c.JSON(http.StatusOK, order)
}
