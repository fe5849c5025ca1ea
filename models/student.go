package models

import (
	"time"

	"gorm.io/gorm"
)

// Student is the identity record bookings reference. Account management
// lives outside this service; bookings only need the foreign key.
type Student struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FullName string `gorm:"column:full_name;size:255" json:"fullName"`
	Email    string `gorm:"size:255;index" json:"email"`
	Phone    string `gorm:"size:32" json:"phone,omitempty"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
