package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront-service/internal/model"
)

// AddressInput carries the writable address fields
type AddressInput struct {
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
	IsDefault bool   `json:"is_default"`
}

func (in *AddressInput) validate() error {
	if in.Street == "" || in.City == "" || in.State == "" || in.ZipCode == "" || in.Country == "" {
		return fmt.Errorf("%w: street, city, state, zip_code and country are required", ErrValidation)
	}
	return nil
}

// AddressService manages a user's address book
type AddressService struct {
	db *gorm.DB
}

func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

// List returns the user's addresses, default first
func (s *AddressService) List(ctx context.Context, userID uint) ([]model.Address, error) {
	var addresses []model.Address
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&addresses).Error
	return addresses, err
}

// Get returns one address scoped to its owner
func (s *AddressService) Get(ctx context.Context, userID, addressID uint) (*model.Address, error) {
	var address model.Address
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &address, nil
}

// Create saves a new address. Saving as default clears every other default
// for the user inside the same transaction.
func (s *AddressService) Create(ctx context.Context, userID uint, in AddressInput) (*model.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	address := &model.Address{
		UserID:    userID,
		Street:    in.Street,
		City:      in.City,
		State:     in.State,
		ZipCode:   in.ZipCode,
		Country:   in.Country,
		IsDefault: in.IsDefault,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.IsDefault {
			if err := tx.Model(&model.Address{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Update rewrites an address scoped to its owner
func (s *AddressService) Update(ctx context.Context, userID, addressID uint, in AddressInput) (*model.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	address, err := s.Get(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.IsDefault && !address.IsDefault {
			if err := tx.Model(&model.Address{}).
				Where("user_id = ? AND id != ?", userID, addressID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		address.Street = in.Street
		address.City = in.City
		address.State = in.State
		address.ZipCode = in.ZipCode
		address.Country = in.Country
		address.IsDefault = in.IsDefault
		return tx.Save(address).Error
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// SetDefault marks the address as the user's default. Clearing the siblings
// and setting the target happen in one transaction, so concurrent calls for
// different addresses settle on exactly one default (last commit wins).
func (s *AddressService) SetDefault(ctx context.Context, userID, addressID uint) (*model.Address, error) {
	address, err := s.Get(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Address{}).
			Where("user_id = ? AND id != ?", userID, addressID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(address).Update("is_default", true).Error
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Delete removes the address unless an order still references it
func (s *AddressService) Delete(ctx context.Context, userID, addressID uint) error {
	address, err := s.Get(ctx, userID, addressID)
	if err != nil {
		return err
	}

	var orderCount int64
	if err := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("address_id = ?", address.ID).
		Count(&orderCount).Error; err != nil {
		return err
	}
	if orderCount > 0 {
		return fmt.Errorf("%w: address is referenced by existing orders", ErrConstraintViolation)
	}

	return s.db.WithContext(ctx).Delete(address).Error
}

// DefaultFor returns the user's default address, falling back to the oldest
func (s *AddressService) DefaultFor(ctx context.Context, userID uint) (*model.Address, error) {
	var address model.Address
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &address, nil
}
