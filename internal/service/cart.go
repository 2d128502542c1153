package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront-service/internal/model"
)

// CartService owns the cart aggregate for both authenticated users and
// anonymous sessions.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// FindOrCreateForUser returns the user's cart, creating it on first use
func (s *CartService) FindOrCreateForUser(ctx context.Context, userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := s.db.WithContext(ctx).
		Where(model.Cart{UserID: &userID}).
		FirstOrCreate(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindOrCreateForSession returns the anonymous cart for a session token,
// creating it on first use
func (s *CartService) FindOrCreateForSession(ctx context.Context, sessionID string) (*model.Cart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrValidation)
	}
	var cart model.Cart
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND user_id IS NULL", sessionID).
		FirstOrCreate(&cart, model.Cart{SessionID: sessionID}).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetWithItems loads the cart with its lines and their variants
func (s *CartService) GetWithItems(ctx context.Context, cartID uint) (*model.Cart, error) {
	var cart model.Cart
	err := s.db.WithContext(ctx).
		Preload("Items.ProductVariant.Product").
		First(&cart, cartID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// AddItem upserts a line for the variant; an existing line accumulates. The
// resulting quantity is validated against the variant's current stock.
func (s *CartService) AddItem(ctx context.Context, cartID, variantID uint, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var variant model.ProductVariant
		if err := tx.Where("id = ? AND archived_at IS NULL", variantID).First(&variant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var item model.CartItem
		err := tx.Where("cart_id = ? AND product_variant_id = ?", cartID, variantID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if !variant.HasStock(quantity) {
				return ErrInsufficientStock
			}
			return tx.Create(&model.CartItem{
				CartID:           cartID,
				ProductVariantID: variantID,
				Quantity:         quantity,
			}).Error
		case err != nil:
			return err
		}

		newQuantity := item.Quantity + quantity
		if !variant.HasStock(newQuantity) {
			return ErrInsufficientStock
		}
		return tx.Model(&item).Update("quantity", newQuantity).Error
	})
}

// UpdateItem sets the absolute quantity for the variant's line. A quantity
// of zero or less removes the line. Missing line is a no-op.
func (s *CartService) UpdateItem(ctx context.Context, cartID, variantID uint, quantity int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.CartItem
		err := tx.Where("cart_id = ? AND product_variant_id = ?", cartID, variantID).First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if quantity <= 0 {
			return tx.Delete(&item).Error
		}

		var variant model.ProductVariant
		if err := tx.Where("id = ? AND archived_at IS NULL", variantID).First(&variant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !variant.HasStock(quantity) {
			return ErrInsufficientStock
		}
		return tx.Model(&item).Update("quantity", quantity).Error
	})
}

// RemoveItem deletes the variant's line if present; no-op otherwise
func (s *CartService) RemoveItem(ctx context.Context, cartID, variantID uint) error {
	return s.db.WithContext(ctx).
		Where("cart_id = ? AND product_variant_id = ?", cartID, variantID).
		Delete(&model.CartItem{}).Error
}

// TotalPrice sums quantity times the variant's current price over all lines.
// Orders freeze prices at purchase time; the cart always reflects today's.
func (s *CartService) TotalPrice(ctx context.Context, cartID uint) (decimal.Decimal, error) {
	var items []model.CartItem
	err := s.db.WithContext(ctx).
		Preload("ProductVariant").
		Where("cart_id = ?", cartID).
		Find(&items).Error
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		if item.ProductVariant == nil {
			continue
		}
		total = total.Add(item.ProductVariant.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total, nil
}

// TotalItems sums the quantities over all lines
func (s *CartService) TotalItems(ctx context.Context, cartID uint) (int, error) {
	var total *int64
	err := s.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_id = ?", cartID).
		Select("SUM(quantity)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return int(*total), nil
}

// IsEmpty reports whether the cart has no lines
func (s *CartService) IsEmpty(ctx context.Context, cartID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_id = ?", cartID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Clear removes every line from the cart
func (s *CartService) Clear(ctx context.Context, cartID uint) error {
	return s.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItem{}).Error
}

// MergeGuestCart folds the anonymous session cart into the user's cart at
// login: overlapping lines sum their quantities, the rest move over, and the
// guest cart is destroyed. Invoked once per login transition; a missing
// guest cart (already merged) is a silent no-op so repeated invocations are
// idempotent.
func (s *CartService) MergeGuestCart(ctx context.Context, userID uint, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var guestCart model.Cart
		err := tx.Preload("Items").
			Where("session_id = ? AND user_id IS NULL", sessionID).
			First(&guestCart).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		var userCart model.Cart
		if err := tx.Where(model.Cart{UserID: &userID}).FirstOrCreate(&userCart).Error; err != nil {
			return err
		}

		for _, guestItem := range guestCart.Items {
			var existing model.CartItem
			err := tx.Where("cart_id = ? AND product_variant_id = ?", userCart.ID, guestItem.ProductVariantID).
				First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Model(&model.CartItem{}).
					Where("id = ?", guestItem.ID).
					Update("cart_id", userCart.ID).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				if err := tx.Model(&existing).
					Update("quantity", existing.Quantity+guestItem.Quantity).Error; err != nil {
					return err
				}
				if err := tx.Delete(&model.CartItem{}, guestItem.ID).Error; err != nil {
					return err
				}
			}
		}

		return tx.Delete(&model.Cart{}, guestCart.ID).Error
	})
}
