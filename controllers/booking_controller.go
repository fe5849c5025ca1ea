// controllers/booking_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"hostel-backend/services"
	"hostel-backend/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

// CreateBookingRequest is what the room-detail checkout page posts.
// The caller's identity comes in explicitly; nothing is read from
// ambient session state.
type CreateBookingRequest struct {
	RoomID         uint                    `json:"room_id" binding:"required"`
	StudentID      uint                    `json:"student_id" binding:"required"`
	OwnerID        uint                    `json:"owner_id"`
	TotalAmount    float64                 `json:"total_amount"`
	CheckIn        string                  `json:"check_in"`
	DurationMonths int                     `json:"duration_months"`
	Payment        services.PaymentDetails `json:"payment"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	ReservationSvc *services.ReservationService
}

func NewBookingController(svc *services.ReservationService) *BookingController {
	return &BookingController{ReservationSvc: svc}
}

// parseCheckIn accepts a plain date or a full RFC3339 timestamp.
func parseCheckIn(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	return nil, false
}

// CreateBooking handles POST /api/bookings.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("create booking: bad payload: %v", err)
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	checkIn, ok := parseCheckIn(req.CheckIn)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "Invalid check_in format, expected YYYY-MM-DD")
		return
	}

	booking, err := bc.ReservationSvc.Reserve(c.Request.Context(), services.ReserveInput{
		RoomID:         req.RoomID,
		StudentID:      req.StudentID,
		OwnerID:        req.OwnerID,
		TotalAmount:    req.TotalAmount,
		CheckIn:        checkIn,
		DurationMonths: req.DurationMonths,
		Payment:        req.Payment,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoomNotFound):
			utils.JSONError(c, http.StatusNotFound, "This room is no longer available")
		case errors.Is(err, services.ErrRoomFull):
			utils.JSONError(c, http.StatusConflict, "Sorry, this room type is completely full!")
		case errors.Is(err, services.ErrConflict):
			utils.JSONError(c, http.StatusServiceUnavailable, "Room is busy, please try again")
		default:
			log.Printf("create booking: %v", err)
			utils.JSONError(c, http.StatusServiceUnavailable, "Could not complete the booking, please try again")
		}
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// CancelBooking handles DELETE /api/bookings/:id.
func (bc *BookingController) CancelBooking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking id")
		return
	}

	if err := bc.ReservationSvc.Cancel(c.Request.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			utils.JSONError(c, http.StatusNotFound, "Booking not found")
		case errors.Is(err, services.ErrOverRelease):
			utils.JSONError(c, http.StatusConflict, "Cancellation conflicts with room inventory")
		case errors.Is(err, services.ErrConflict):
			utils.JSONError(c, http.StatusServiceUnavailable, "Room is busy, please try again")
		default:
			log.Printf("cancel booking %d: %v", id, err)
			utils.JSONError(c, http.StatusServiceUnavailable, "Could not cancel the booking, please try again")
		}
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"cancelled": true})
}

// GetBooking handles GET /api/bookings/:id.
func (bc *BookingController) GetBooking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking id")
		return
	}

	booking, err := bc.ReservationSvc.GetBooking(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Booking not found")
			return
		}
		log.Printf("get booking %d: %v", id, err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load booking")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, booking)
}

// GetStudentBookings handles GET /api/students/:id/bookings.
func (bc *BookingController) GetStudentBookings(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid student id")
		return
	}

	list, err := bc.ReservationSvc.GetStudentBookings(c.Request.Context(), uint(id))
	if err != nil {
		log.Printf("list bookings for student %d: %v", id, err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load bookings")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, list)
}
