package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/middleware"
	"storefront-service/internal/model"
	"storefront-service/internal/service"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"
)

// CartItemRequest defines the structure for cart line requests
type CartItemRequest struct {
	ProductVariantID uint `json:"product_variant_id"`
	Quantity         int  `json:"quantity"`
}

// CartHandler serves the shopping cart for users and guest sessions
type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// resolveCart returns the caller's cart, keyed by user ID for authenticated
// requests and by session ID for guests
func (h *CartHandler) resolveCart(c echo.Context) (*model.Cart, error) {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		return h.carts.FindOrCreateForUser(c.Request().Context(), userID)
	}
	sessionID, _ := middleware.GetSessionIDFromContext(c)
	return h.carts.FindOrCreateForSession(c.Request().Context(), sessionID)
}

// GetCart returns the cart with its lines and computed totals
func (h *CartHandler) GetCart(c echo.Context) error {
	log := logger.FromContext(c)

	cart, err := h.resolveCart(c)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to load cart")
	}

	loaded, err := h.carts.GetWithItems(c.Request().Context(), cart.ID)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to load cart")
	}

	totalPrice, err := h.carts.TotalPrice(c.Request().Context(), cart.ID)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to total cart")
	}
	totalItems, err := h.carts.TotalItems(c.Request().Context(), cart.ID)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to total cart")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"cart":        loaded,
		"total_price": totalPrice,
		"total_items": totalItems,
	})
}

// AddItem adds a quantity of a variant to the cart; an existing line accumulates
func (h *CartHandler) AddItem(c echo.Context) error {
	log := logger.FromContext(c)

	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	cart, err := h.resolveCart(c)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to load cart")
	}

	err = h.carts.AddItem(c.Request().Context(), cart.ID, req.ProductVariantID, req.Quantity)
	if err != nil {
		log.Warn("Failed to add cart item",
			zap.Uint("cart_id", cart.ID),
			zap.Uint("product_variant_id", req.ProductVariantID),
			zap.Int("quantity", req.Quantity),
			zap.Error(err))
		return writeServiceError(c, log, err, "Failed to add cart item")
	}

	prometheus.RecordCartOperation("add")
	log.Info("Cart item added",
		zap.Uint("cart_id", cart.ID),
		zap.Uint("product_variant_id", req.ProductVariantID),
		zap.Int("quantity", req.Quantity))

	return h.GetCart(c)
}

// UpdateItem sets the absolute quantity of a cart line; zero removes it
func (h *CartHandler) UpdateItem(c echo.Context) error {
	log := logger.FromContext(c)

	variantID, err := strconv.ParseUint(c.Param("variant_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid variant id"})
	}

	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	cart, err := h.resolveCart(c)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to load cart")
	}

	err = h.carts.UpdateItem(c.Request().Context(), cart.ID, uint(variantID), req.Quantity)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to update cart item")
	}

	prometheus.RecordCartOperation("update")
	log.Info("Cart item updated",
		zap.Uint("cart_id", cart.ID),
		zap.Uint64("product_variant_id", variantID),
		zap.Int("quantity", req.Quantity))

	return h.GetCart(c)
}

// RemoveItem deletes a cart line; removing an absent line is a no-op
func (h *CartHandler) RemoveItem(c echo.Context) error {
	log := logger.FromContext(c)

	variantID, err := strconv.ParseUint(c.Param("variant_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid variant id"})
	}

	cart, err := h.resolveCart(c)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to load cart")
	}

	err = h.carts.RemoveItem(c.Request().Context(), cart.ID, uint(variantID))
	if err != nil {
		return writeServiceError(c, log, err, "Failed to remove cart item")
	}

	prometheus.RecordCartOperation("remove")
	log.Info("Cart item removed",
		zap.Uint("cart_id", cart.ID),
		zap.Uint64("product_variant_id", variantID))

	return h.GetCart(c)
}
