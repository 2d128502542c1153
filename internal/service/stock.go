package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront-service/internal/model"
)

// StockService is the stock ledger for product variants. All decrements go
// through Reduce so stock can never go negative.
type StockService struct {
	db *gorm.DB
}

func NewStockService(db *gorm.DB) *StockService {
	return &StockService{db: db}
}

// HasStock reports whether the variant's current stock covers quantity.
// Archived variants are treated as out of stock.
func (s *StockService) HasStock(ctx context.Context, variantID uint, quantity int) (bool, error) {
	var variant model.ProductVariant
	err := s.db.WithContext(ctx).
		Where("id = ? AND archived_at IS NULL", variantID).
		First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	return variant.HasStock(quantity), nil
}

// Reduce decrements the variant's stock by quantity as a single conditional
// update: the row is only touched if the remaining stock covers the request,
// so two concurrent checkouts against the same variant can never combine
// into an oversell. Runs against tx so the caller can make it part of a
// larger atomic unit.
func (s *StockService) Reduce(tx *gorm.DB, variantID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	result := tx.Model(&model.ProductVariant{}).
		Where("id = ? AND archived_at IS NULL AND stock_quantity >= ?", variantID, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing variant from one that ran out.
		var count int64
		if err := tx.Model(&model.ProductVariant{}).
			Where("id = ? AND archived_at IS NULL", variantID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

// Restock adds quantity back to the variant's stock (admin correction)
func (s *StockService) Restock(ctx context.Context, variantID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	result := s.db.WithContext(ctx).Model(&model.ProductVariant{}).
		Where("id = ? AND archived_at IS NULL", variantID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
