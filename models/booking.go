package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const BookingStatusConfirmed = "Confirmed"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// RoomID is nullable: an admin can delete a room configuration while
	// bookings against it still exist. Cancellation handles that case.
	RoomID   *uint `gorm:"column:room_id;index" json:"roomId,omitempty"`
	HostelID uint  `gorm:"column:hostel_id;index" json:"hostelId"`

	StudentID uint `gorm:"column:student_id;index" json:"studentId"`
	OwnerID   uint `gorm:"column:owner_id;index" json:"ownerId"`

	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"referenceCode"`
	Status        string `gorm:"column:status;size:64" json:"status"`

	TotalAmount    float64    `gorm:"column:total_amount" json:"totalAmount"`
	CheckIn        *time.Time `gorm:"column:check_in" json:"checkIn,omitempty"`
	DurationMonths int        `gorm:"column:duration_months" json:"durationMonths"`

	// Payment details as supplied by the checkout collaborator. Always a
	// complete object: absent caller fields are stored as empty values.
	Payment datatypes.JSON `gorm:"column:payment" json:"payment,omitempty"`

	Room    *Room   `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Student Student `gorm:"foreignKey:StudentID;references:ID" json:"student,omitempty"`
}
