package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storefront-service/internal/model"
)

func TestSlotListAvailableFiltersPastAndClosed(t *testing.T) {
	db := newTestDB(t)
	slots := NewSlotService(db)
	ctx := context.Background()

	upcoming, err := slots.Create(ctx, SlotInput{
		StartTime:   time.Now().Add(24 * time.Hour),
		EndTime:     time.Now().Add(26 * time.Hour),
		IsAvailable: true,
	})
	require.NoError(t, err)

	// Closed window
	_, err = slots.Create(ctx, SlotInput{
		StartTime:   time.Now().Add(48 * time.Hour),
		EndTime:     time.Now().Add(50 * time.Hour),
		IsAvailable: false,
	})
	require.NoError(t, err)

	// Window in the past
	_, err = slots.Create(ctx, SlotInput{
		StartTime:   time.Now().Add(-4 * time.Hour),
		EndTime:     time.Now().Add(-2 * time.Hour),
		IsAvailable: true,
	})
	require.NoError(t, err)

	available, err := slots.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	require.Equal(t, upcoming.ID, available[0].ID)

	all, err := slots.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestSlotWindowValidation(t *testing.T) {
	db := newTestDB(t)
	slots := NewSlotService(db)
	ctx := context.Background()

	start := time.Now().Add(24 * time.Hour)

	_, err := slots.Create(ctx, SlotInput{StartTime: start, EndTime: start.Add(-time.Hour), IsAvailable: true})
	require.ErrorIs(t, err, ErrValidation)

	_, err = slots.Create(ctx, SlotInput{StartTime: start, EndTime: start, IsAvailable: true})
	require.ErrorIs(t, err, ErrValidation)

	_, err = slots.Create(ctx, SlotInput{EndTime: start.Add(time.Hour), IsAvailable: true})
	require.ErrorIs(t, err, ErrValidation)
}

func TestSlotDeleteBlockedByOrders(t *testing.T) {
	db := newTestDB(t)
	slots := NewSlotService(db)
	ctx := context.Background()

	slot, err := slots.Create(ctx, SlotInput{
		StartTime:   time.Now().Add(24 * time.Hour),
		EndTime:     time.Now().Add(26 * time.Hour),
		IsAvailable: true,
	})
	require.NoError(t, err)

	user := createTestUser(t, db, "shopper@example.com")
	address := createTestAddress(t, db, user.ID)
	order := &model.Order{
		UserID:         user.ID,
		AddressID:      address.ID,
		DeliverySlotID: slot.ID,
		Status:         model.OrderStatusPending,
		PaymentStatus:  model.PaymentStatusUnpaid,
	}
	require.NoError(t, db.Create(order).Error)

	require.ErrorIs(t, slots.Delete(ctx, slot.ID), ErrConstraintViolation)

	require.NoError(t, db.Delete(order).Error)
	require.NoError(t, slots.Delete(ctx, slot.ID))
	require.ErrorIs(t, slots.Delete(ctx, slot.ID), ErrNotFound)
}
