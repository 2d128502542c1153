package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/service"
	"storefront-service/pkg/logger"
)

// SlotHandler serves delivery window routes, public and admin
type SlotHandler struct {
	slots *service.SlotService
}

func NewSlotHandler(slots *service.SlotService) *SlotHandler {
	return &SlotHandler{slots: slots}
}

// ListAvailableSlots returns upcoming bookable delivery windows for checkout
func (h *SlotHandler) ListAvailableSlots(c echo.Context) error {
	log := logger.FromContext(c)

	slots, err := h.slots.ListAvailable(c.Request().Context())
	if err != nil {
		return writeServiceError(c, log, err, "Failed to list delivery slots")
	}
	return c.JSON(http.StatusOK, slots)
}

// ListAllSlots returns every delivery window for the back office
func (h *SlotHandler) ListAllSlots(c echo.Context) error {
	log := logger.FromContext(c)

	slots, err := h.slots.ListAll(c.Request().Context())
	if err != nil {
		return writeServiceError(c, log, err, "Failed to list delivery slots")
	}
	return c.JSON(http.StatusOK, slots)
}

// CreateSlot saves a new delivery window
func (h *SlotHandler) CreateSlot(c echo.Context) error {
	log := logger.FromContext(c)

	var req service.SlotInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	slot, err := h.slots.Create(c.Request().Context(), req)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to create delivery slot")
	}

	log.Info("Delivery slot created", zap.Uint("slot_id", slot.ID))
	return c.JSON(http.StatusCreated, slot)
}

// UpdateSlot rewrites a delivery window
func (h *SlotHandler) UpdateSlot(c echo.Context) error {
	log := logger.FromContext(c)

	slotID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}

	var req service.SlotInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	slot, err := h.slots.Update(c.Request().Context(), uint(slotID), req)
	if err != nil {
		return writeServiceError(c, log, err, "Failed to update delivery slot")
	}

	log.Info("Delivery slot updated", zap.Uint("slot_id", slot.ID))
	return c.JSON(http.StatusOK, slot)
}

// DeleteSlot removes a delivery window
func (h *SlotHandler) DeleteSlot(c echo.Context) error {
	log := logger.FromContext(c)

	slotID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}

	if err := h.slots.Delete(c.Request().Context(), uint(slotID)); err != nil {
		return writeServiceError(c, log, err, "Failed to delete delivery slot")
	}

	log.Info("Delivery slot deleted", zap.Uint64("slot_id", slotID))
	return c.NoContent(http.StatusNoContent)
}
