package model

import (
	"time"
)

// User roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a registered customer or admin
type User struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	Email        string    `json:"email" gorm:"type:varchar(255);unique;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Phone        string    `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Role         string    `json:"role" gorm:"type:varchar(20);not null;default:customer"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
