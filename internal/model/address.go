package model

import (
	"fmt"
	"time"
)

// Address belongs to a user; at most one per user is marked default
type Address struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Street    string    `json:"street" gorm:"type:varchar(255);not null"`
	City      string    `json:"city" gorm:"type:varchar(100);not null"`
	State     string    `json:"state" gorm:"type:varchar(100);not null"`
	ZipCode   string    `json:"zip_code" gorm:"type:varchar(20);not null"`
	Country   string    `json:"country" gorm:"type:varchar(100);not null"`
	IsDefault bool      `json:"is_default" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullAddress renders the address on one line
func (a *Address) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s %s, %s", a.Street, a.City, a.State, a.ZipCode, a.Country)
}
