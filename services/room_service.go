package services

import (
	"context"
	"errors"
	"fmt"

	"hostel-backend/models"

	"gorm.io/gorm"
)

// RoomService is the read-only query surface the room-detail and
// listing collaborators use. All writes to room inventory go through
// ReservationService; administrative room edits happen elsewhere.
type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

// RoomAvailability is the summary the room-detail page renders before
// offering the reserve button.
type RoomAvailability struct {
	RoomID           uint   `json:"roomId"`
	TypeName         string `json:"typeName"`
	Capacity         int    `json:"capacity"`
	TotalUnits       int    `json:"totalUnits"`
	Available        int    `json:"available"`
	CurrentOccupancy int    `json:"currentOccupancy"`
	SlotsRemaining   int    `json:"slotsRemaining"`
	SoldOut          bool   `json:"soldOut"`
}

func (s *RoomService) GetByID(ctx context.Context, roomID uint) (models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).Preload("Hostel").First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Room{}, ErrRoomNotFound
		}
		return models.Room{}, fmt.Errorf("failed to load room %d: %w", roomID, err)
	}
	return room, nil
}

// Availability reports how many bed slots the room has left under the
// sequential-fill model.
func (s *RoomService) Availability(ctx context.Context, roomID uint) (RoomAvailability, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoomAvailability{}, ErrRoomNotFound
		}
		return RoomAvailability{}, fmt.Errorf("failed to load room %d: %w", roomID, err)
	}
	return summarize(room), nil
}

// ListByHostel returns all room configurations of a hostel.
func (s *RoomService) ListByHostel(ctx context.Context, hostelID uint) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.WithContext(ctx).
		Where("hostel_id = ?", hostelID).
		Order("price ASC").
		Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms for hostel %d: %w", hostelID, err)
	}
	return rooms, nil
}

func summarize(room models.Room) RoomAvailability {
	capacity := room.Capacity
	if capacity < 1 {
		capacity = 1
	}

	slots := 0
	if room.Available > 0 {
		slots = (room.Available-1)*capacity + (capacity - room.CurrentOccupancy)
	}

	return RoomAvailability{
		RoomID:           room.ID,
		TypeName:         room.TypeName,
		Capacity:         room.Capacity,
		TotalUnits:       room.TotalUnits,
		Available:        room.Available,
		CurrentOccupancy: room.CurrentOccupancy,
		SlotsRemaining:   slots,
		SoldOut:          room.Available <= 0,
	}
}
