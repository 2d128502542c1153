package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"storefront-service/internal/model"
)

// SlotInput carries the writable delivery slot fields
type SlotInput struct {
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
}

// SlotService manages delivery windows offered at checkout
type SlotService struct {
	db *gorm.DB
}

func NewSlotService(db *gorm.DB) *SlotService {
	return &SlotService{db: db}
}

// ListAvailable returns available upcoming slots ordered by start time
func (s *SlotService) ListAvailable(ctx context.Context) ([]model.DeliverySlot, error) {
	var slots []model.DeliverySlot
	err := s.db.WithContext(ctx).
		Where("is_available = ? AND start_time >= ?", true, time.Now()).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

// ListAll returns every slot (admin)
func (s *SlotService) ListAll(ctx context.Context) ([]model.DeliverySlot, error) {
	var slots []model.DeliverySlot
	err := s.db.WithContext(ctx).Order("start_time ASC").Find(&slots).Error
	return slots, err
}

// Get returns one slot
func (s *SlotService) Get(ctx context.Context, slotID uint) (*model.DeliverySlot, error) {
	var slot model.DeliverySlot
	err := s.db.WithContext(ctx).First(&slot, slotID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &slot, nil
}

// Create saves a new slot; the window must end after it starts
func (s *SlotService) Create(ctx context.Context, in SlotInput) (*model.DeliverySlot, error) {
	if err := validateSlotWindow(in); err != nil {
		return nil, err
	}

	slot := &model.DeliverySlot{
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		IsAvailable: in.IsAvailable,
	}
	if err := s.db.WithContext(ctx).Create(slot).Error; err != nil {
		return nil, err
	}
	return slot, nil
}

// Update rewrites a slot
func (s *SlotService) Update(ctx context.Context, slotID uint, in SlotInput) (*model.DeliverySlot, error) {
	if err := validateSlotWindow(in); err != nil {
		return nil, err
	}

	slot, err := s.Get(ctx, slotID)
	if err != nil {
		return nil, err
	}

	slot.StartTime = in.StartTime
	slot.EndTime = in.EndTime
	slot.IsAvailable = in.IsAvailable
	if err := s.db.WithContext(ctx).Save(slot).Error; err != nil {
		return nil, err
	}
	return slot, nil
}

// Delete removes the slot unless an order still references it
func (s *SlotService) Delete(ctx context.Context, slotID uint) error {
	slot, err := s.Get(ctx, slotID)
	if err != nil {
		return err
	}

	var orderCount int64
	if err := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("delivery_slot_id = ?", slot.ID).
		Count(&orderCount).Error; err != nil {
		return err
	}
	if orderCount > 0 {
		return fmt.Errorf("%w: delivery slot is referenced by existing orders", ErrConstraintViolation)
	}

	return s.db.WithContext(ctx).Delete(slot).Error
}

func validateSlotWindow(in SlotInput) error {
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return fmt.Errorf("%w: start_time and end_time are required", ErrValidation)
	}
	if !in.EndTime.After(in.StartTime) {
		return fmt.Errorf("%w: end_time must be after start_time", ErrValidation)
	}
	return nil
}
