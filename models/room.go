package models

import (
	"time"

	"gorm.io/gorm"
)

// Room is one bookable room configuration (type) within a hostel.
//
// Occupancy follows a sequential-saturation model: occupants fill one
// unit at a time. CurrentOccupancy counts heads in the unit currently
// being filled; when it reaches Capacity that unit is consumed
// (Available goes down by one) and the counter wraps to zero.
// Available == 0 means sold out regardless of CurrentOccupancy.
type Room struct {
	ID uint `gorm:"primaryKey" json:"id"`

	HostelID uint    `gorm:"index;column:hostel_id" json:"hostelId"`
	TypeName string  `gorm:"column:type_name;size:128" json:"typeName"`
	Price    float64 `json:"price"`

	// Capacity is beds per physical unit; TotalUnits is the number of
	// units fixed at creation and acts as the ceiling for Available.
	Capacity         int `gorm:"column:capacity" json:"capacity"`
	TotalUnits       int `gorm:"column:total_units" json:"totalUnits"`
	Available        int `gorm:"column:available" json:"available"`
	CurrentOccupancy int `gorm:"column:current_occupancy;default:0" json:"currentOccupancy"`

	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Hostel Hostel `gorm:"foreignKey:HostelID;references:ID" json:"hostel,omitempty"`
}
