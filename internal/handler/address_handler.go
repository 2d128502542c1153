package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/middleware"
	"storefront-service/internal/service"
	"storefront-service/pkg/logger"
)

// AddressHandler serves the authenticated user's address book
type AddressHandler struct {
	addresses *service.AddressService
}

func NewAddressHandler(addresses *service.AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// ListAddresses returns the user's addresses, default first
func (h *AddressHandler) ListAddresses(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	addresses, err := h.addresses.List(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to list addresses")
	}
	return c.JSON(http.StatusOK, addresses)
}

// CreateAddress saves a new address for the user
func (h *AddressHandler) CreateAddress(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	var req service.AddressInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	address, err := h.addresses.Create(c.Request().Context(), userID, req)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to create address")
	}

	log.Info("Address created", zap.Uint("user_id", userID), zap.Uint("address_id", address.ID))
	return c.JSON(http.StatusCreated, address)
}

// UpdateAddress rewrites one of the user's addresses
func (h *AddressHandler) UpdateAddress(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	addressID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid address id"})
	}

	var req service.AddressInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	address, err := h.addresses.Update(c.Request().Context(), userID, uint(addressID), req)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to update address")
	}

	log.Info("Address updated", zap.Uint("user_id", userID), zap.Uint("address_id", address.ID))
	return c.JSON(http.StatusOK, address)
}

// SetDefaultAddress marks one of the user's addresses as the default
func (h *AddressHandler) SetDefaultAddress(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	addressID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid address id"})
	}

	address, err := h.addresses.SetDefault(c.Request().Context(), userID, uint(addressID))
	if err != nil {
		return writeServiceError(c, log, err, "Failed to set default address")
	}

	log.Info("Default address set", zap.Uint("user_id", userID), zap.Uint("address_id", address.ID))
	return c.JSON(http.StatusOK, address)
}

// DeleteAddress removes one of the user's addresses
func (h *AddressHandler) DeleteAddress(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	addressID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid address id"})
	}

	if err := h.addresses.Delete(c.Request().Context(), userID, uint(addressID)); err != nil {
		return writeServiceError(c, log, err, "Failed to delete address")
	}

	log.Info("Address deleted", zap.Uint("user_id", userID), zap.Uint64("address_id", addressID))
	return c.NoContent(http.StatusNoContent)
}
