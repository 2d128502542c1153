package model

import (
	"time"
)

// Category represents a product category; top-level categories have a nil parent
type Category struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_parent_name"`
	Slug      string    `json:"slug" gorm:"type:varchar(120);unique;not null"`
	ParentID  *uint     `json:"parent_id,omitempty" gorm:"uniqueIndex:idx_categories_parent_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
