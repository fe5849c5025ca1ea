package models

import (
	"time"

	"gorm.io/gorm"
)

// Hostel is the parent record of a set of room configurations.
// Created and edited by the owner/admin dashboard; the reservation
// core only ever reads it through its rooms.
type Hostel struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OwnerID uint   `gorm:"index;column:owner_id" json:"ownerId"`
	Name    string `gorm:"size:255" json:"name"`
	City    string `gorm:"size:128" json:"city"`
	Address string `gorm:"type:text" json:"address"`

	Rating      float64 `gorm:"column:rating;default:0" json:"rating"`
	RatingCount int     `gorm:"column:rating_count;default:0" json:"ratingCount"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
