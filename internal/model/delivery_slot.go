package model

import (
	"time"
)

// DeliverySlot is a fixed start/end delivery window offered at checkout
type DeliverySlot struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	StartTime   time.Time `json:"start_time" gorm:"not null;index"`
	EndTime     time.Time `json:"end_time" gorm:"not null"`
	IsAvailable bool      `json:"is_available" gorm:"not null;default:true;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TimeRange renders the slot window for display
func (s *DeliverySlot) TimeRange() string {
	return s.StartTime.Format("January 02, 2006 03:04 PM") + " - " + s.EndTime.Format("03:04 PM")
}
