package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/middleware"
	"storefront-service/internal/service"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"
)

// CheckoutRequest defines the structure for checkout requests
type CheckoutRequest struct {
	AddressID      uint `json:"address_id"`
	DeliverySlotID uint `json:"delivery_slot_id"`
}

// OrderHandler serves the customer-facing order routes
type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Checkout converts the user's cart into an order and captures payment.
// Payment capture is simulated; the order is created unpaid and the pay
// event fires immediately after the checkout transaction commits.
func (h *OrderHandler) Checkout(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	order, err := h.orders.CreateFromCart(c.Request().Context(), userID, req.AddressID, req.DeliverySlotID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientStock):
			prometheus.StockRejectionsCounter.Inc()
			prometheus.CheckoutFailuresCounter.WithLabelValues("insufficient_stock").Inc()
		case errors.Is(err, service.ErrValidation):
			prometheus.CheckoutFailuresCounter.WithLabelValues("validation").Inc()
		case errors.Is(err, service.ErrNotFound):
			prometheus.CheckoutFailuresCounter.WithLabelValues("not_found").Inc()
		default:
			prometheus.CheckoutFailuresCounter.WithLabelValues("internal").Inc()
		}
		log.Warn("Checkout failed", zap.Uint("user_id", userID), zap.Error(err))
		return writeServiceError(c, log, err, "Failed to create order")
	}

	prometheus.OrdersCreatedCounter.Inc()

	order, err = h.orders.FirePaymentEvent(c.Request().Context(), order.ID, service.EventPay)
	if err != nil {
		// The order exists; surface it with its unpaid status rather
		// than reporting the whole checkout as failed.
		log.Error("Payment capture failed after checkout",
			zap.Uint("user_id", userID),
			zap.Error(err))
		fallback, loadErr := h.orders.GetForUser(c.Request().Context(), userID, order.ID)
		if loadErr != nil {
			return writeServiceError(c, log, loadErr, "Failed to load order")
		}
		return c.JSON(http.StatusCreated, fallback)
	}

	log.Info("Checkout completed",
		zap.Uint("user_id", userID),
		zap.Uint("order_id", order.ID),
		zap.String("total_price", order.TotalPrice.String()))
	return c.JSON(http.StatusCreated, order)
}

// ListOrders returns the authenticated user's order history
func (h *OrderHandler) ListOrders(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	orders, total, err := h.orders.ListForUser(c.Request().Context(), userID, page, pageSize)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to list orders")
	}

	return c.JSON(http.StatusOK, echo.Map{"orders": orders, "total": total})
}

// GetOrder returns one of the user's orders with its lines
func (h *OrderHandler) GetOrder(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	order, err := h.orders.GetForUser(c.Request().Context(), userID, uint(orderID))
	if err != nil {
		return writeServiceError(c, log, err, "Failed to load order")
	}

	return c.JSON(http.StatusOK, order)
}

// CancelOrder cancels one of the user's orders while it is still pending
// or processing
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	// Ownership check before firing the event; admins go through their
	// own routes.
	if _, err := h.orders.GetForUser(c.Request().Context(), userID, uint(orderID)); err != nil {
		return writeServiceError(c, log, err, "Failed to load order")
	}

	order, err := h.orders.FireFulfillmentEvent(c.Request().Context(), uint(orderID), service.EventCancel)
	if err != nil {
		log.Warn("Order cancellation rejected",
			zap.Uint("user_id", userID),
			zap.Uint64("order_id", orderID),
			zap.Error(err))
		return writeServiceError(c, log, err, "Failed to cancel order")
	}

	prometheus.RecordOrderTransition(service.EventCancel)
	log.Info("Order cancelled", zap.Uint("user_id", userID), zap.Uint("order_id", order.ID))
	return c.JSON(http.StatusOK, order)
}
