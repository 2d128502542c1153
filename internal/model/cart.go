package model

import (
	"time"
)

// Cart holds line items for an authenticated user or an anonymous session.
// Exactly one of UserID/SessionID identifies the owner; a guest cart is
// destroyed after being merged into the user cart at login.
type Cart struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    *uint     `json:"user_id,omitempty" gorm:"index"`
	SessionID string    `json:"session_id,omitempty" gorm:"type:varchar(64);index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// CartItem is one (variant, quantity) line; at most one line per variant
type CartItem struct {
	ID               uint      `json:"id" gorm:"primarykey"`
	CartID           uint      `json:"cart_id" gorm:"not null;uniqueIndex:idx_cart_items_cart_variant"`
	ProductVariantID uint      `json:"product_variant_id" gorm:"not null;uniqueIndex:idx_cart_items_cart_variant"`
	Quantity         int       `json:"quantity" gorm:"not null;default:1"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	ProductVariant *ProductVariant `json:"product_variant,omitempty" gorm:"foreignKey:ProductVariantID"`
}
