package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents the product master data; variants carry price and stock
type Product struct {
	ID          uint       `json:"id" gorm:"primarykey"`
	Name        string     `json:"name" gorm:"type:varchar(255);not null"`
	Description string     `json:"description" gorm:"type:text;not null"`
	Brand       string     `json:"brand" gorm:"type:varchar(100);not null;index"`
	CategoryID  uint       `json:"category_id" gorm:"not null;index"`
	Slug        string     `json:"slug" gorm:"type:varchar(280);unique;not null"`
	Featured    bool       `json:"featured" gorm:"not null;default:false;index"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty" gorm:"index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Variants []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// Archived reports whether the product has been archived
func (p *Product) Archived() bool {
	return p.ArchivedAt != nil
}

// ProductVariant is the sellable unit: a specific SKU of a product
type ProductVariant struct {
	ID             uint             `json:"id" gorm:"primarykey"`
	ProductID      uint             `json:"product_id" gorm:"not null;index"`
	SKU            string           `json:"sku" gorm:"type:varchar(100);unique;not null"`
	VariantName    string           `json:"variant_name" gorm:"type:varchar(255);not null"`
	Price          decimal.Decimal  `json:"price" gorm:"type:decimal(10,2);not null"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty" gorm:"type:decimal(10,2)"`
	StockQuantity  int              `json:"stock_quantity" gorm:"not null;default:0"`
	IsComboDeal    bool             `json:"is_combo_deal" gorm:"not null;default:false;index"`
	ArchivedAt     *time.Time       `json:"archived_at,omitempty" gorm:"index"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Archived reports whether the variant has been archived
func (v *ProductVariant) Archived() bool {
	return v.ArchivedAt != nil
}

// HasStock reports whether the variant can cover the requested quantity
func (v *ProductVariant) HasStock(quantity int) bool {
	return v.StockQuantity >= quantity
}
