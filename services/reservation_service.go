// services/reservation_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"hostel-backend/models"
	"hostel-backend/utils"

	gosqlmysql "github.com/go-sql-driver/mysql"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReservationService sequences the inventory counter update and the
// booking record write so they commit or roll back together. The
// counter update is a compare-and-swap keyed on the previously read
// (available, current_occupancy) pair, retried when a concurrent
// reservation moved the counters underneath us.
type ReservationService struct {
	DB     *gorm.DB
	Ledger InventoryLedger
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{DB: db}
}

const casMaxRetries = 5

// errCASConflict signals that the whole read-allocate-write sequence
// must rerun against fresh state. Never escapes this package.
var errCASConflict = errors.New("counter_cas_conflict")

// PaymentDetails carries the checkout collaborator's payment fields.
// Marshalled as a complete object so no key is ever absent from the
// stored record, even when the caller omitted it.
type PaymentDetails struct {
	Method        string `json:"method"`
	TransactionID string `json:"transactionId"`
	CardLast4     string `json:"cardLast4"`
}

// ReserveInput is everything the caller supplies for one reservation.
// Identity is explicit here; the service never reads session state.
type ReserveInput struct {
	RoomID         uint
	StudentID      uint
	OwnerID        uint
	TotalAmount    float64
	CheckIn        *time.Time
	DurationMonths int
	Payment        PaymentDetails
}

// Reserve admits one occupant into the room's inventory and writes the
// booking record in the same transaction. Returns ErrRoomNotFound,
// ErrRoomFull, or ErrConflict when retries against concurrent writers
// ran out; on any failure nothing is persisted.
func (s *ReservationService) Reserve(ctx context.Context, in ReserveInput) (models.Booking, error) {
	if in.RoomID == 0 {
		return models.Booking{}, ErrRoomNotFound
	}

	payment, err := json.Marshal(in.Payment)
	if err != nil {
		return models.Booking{}, fmt.Errorf("failed to marshal payment details: %w", err)
	}

	for attempt := 0; attempt < casMaxRetries; attempt++ {
		booking, err := s.tryReserve(ctx, in, datatypes.JSON(payment))
		if err == nil {
			return booking, nil
		}
		if errors.Is(err, errCASConflict) {
			log.Printf("reserve: room %d counters moved (attempt %d) - retrying", in.RoomID, attempt+1)
			continue
		}
		return models.Booking{}, err
	}
	return models.Booking{}, fmt.Errorf("%w: room %d", ErrConflict, in.RoomID)
}

func (s *ReservationService) tryReserve(ctx context.Context, in ReserveInput, payment datatypes.JSON) (models.Booking, error) {
	var booking models.Booking

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, in.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("failed to load room %d: %w", in.RoomID, err)
		}

		next, err := s.Ledger.Allocate(room)
		if err != nil {
			return err
		}

		if err := casUpdateCounters(tx, room, next); err != nil {
			return err
		}

		ref, err := utils.GenerateBookingReference(8)
		if err != nil {
			return fmt.Errorf("failed to generate booking reference: %w", err)
		}

		roomID := room.ID
		booking = models.Booking{
			RoomID:         &roomID,
			HostelID:       room.HostelID,
			StudentID:      in.StudentID,
			OwnerID:        in.OwnerID,
			ReferenceCode:  ref,
			Status:         models.BookingStatusConfirmed,
			TotalAmount:    in.TotalAmount,
			CheckIn:        in.CheckIn,
			DurationMonths: in.DurationMonths,
			Payment:        payment,
		}
		if err := tx.Create(&booking).Error; err != nil {
			if isReferenceCollision(err) {
				// Reference code collision; rerun picks a fresh one.
				return errCASConflict
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})

	return booking, err
}

// Cancel reverses a reservation: release the inventory slot, then
// delete the booking record, in that order, in one transaction. A
// booking whose room was deleted by the admin dashboard skips the
// release silently.
func (s *ReservationService) Cancel(ctx context.Context, bookingID uint) error {
	for attempt := 0; attempt < casMaxRetries; attempt++ {
		err := s.tryCancel(ctx, bookingID)
		if errors.Is(err, errCASConflict) {
			log.Printf("cancel: booking %d counters moved (attempt %d) - retrying", bookingID, attempt+1)
			continue
		}
		return err
	}
	return fmt.Errorf("%w: booking %d", ErrConflict, bookingID)
}

func (s *ReservationService) tryCancel(ctx context.Context, bookingID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to load booking %d: %w", bookingID, err)
		}

		if booking.RoomID != nil {
			var room models.Room
			err := tx.First(&room, *booking.RoomID).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				// Inventory already gone, nothing to reverse.
				log.Printf("cancel: room %d no longer exists for booking %d, skipping release", *booking.RoomID, bookingID)
			case err != nil:
				return fmt.Errorf("failed to load room %d: %w", *booking.RoomID, err)
			default:
				next, relErr := s.Ledger.Release(room)
				if relErr != nil {
					return relErr
				}
				if err := casUpdateCounters(tx, room, next); err != nil {
					return err
				}
			}
		}

		if err := tx.Delete(&models.Booking{}, booking.ID).Error; err != nil {
			return fmt.Errorf("failed to delete booking %d: %w", booking.ID, err)
		}
		return nil
	})
}

// GetBooking loads one booking with its room for the detail view.
func (s *ReservationService) GetBooking(ctx context.Context, bookingID uint) (models.Booking, error) {
	var booking models.Booking
	if err := s.DB.WithContext(ctx).Preload("Room").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, ErrBookingNotFound
		}
		return models.Booking{}, fmt.Errorf("failed to load booking %d: %w", bookingID, err)
	}
	return booking, nil
}

// GetStudentBookings lists a student's bookings, newest first.
func (s *ReservationService) GetStudentBookings(ctx context.Context, studentID uint) ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.WithContext(ctx).
		Preload("Room").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings for student %d: %w", studentID, err)
	}
	return list, nil
}

// casUpdateCounters persists the ledger transition only if the row
// still holds the counters the transition was computed from.
func casUpdateCounters(tx *gorm.DB, prev, next models.Room) error {
	res := tx.Model(&models.Room{}).
		Where("id = ? AND available = ? AND current_occupancy = ?",
			prev.ID, prev.Available, prev.CurrentOccupancy).
		Updates(map[string]interface{}{
			"available":         next.Available,
			"current_occupancy": next.CurrentOccupancy,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update room %d counters: %w", prev.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return errCASConflict
	}
	return nil
}

// isReferenceCollision reports whether err is a unique-key violation on
// the booking reference code specifically. Any other constraint
// violation must surface to the caller instead of triggering a retry.
func isReferenceCollision(err error) bool {
	lc := strings.ToLower(err.Error())
	if !strings.Contains(lc, "reference_code") {
		return false
	}
	var myErr *gosqlmysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique")
}
