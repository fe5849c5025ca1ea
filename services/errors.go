package services

import "errors"

// Domain errors surfaced to controllers for user-facing messaging.
// Anything else coming out of a service is a wrapped storage error.
var (
	ErrRoomNotFound    = errors.New("room_not_found")
	ErrRoomFull        = errors.New("room_full")
	ErrBookingNotFound = errors.New("booking_not_found")

	// ErrOverRelease means a release would push Available past the
	// room's TotalUnits ceiling (duplicate or erroneous cancel).
	ErrOverRelease = errors.New("over_release")

	// ErrConflict is returned when the counter compare-and-swap kept
	// losing against concurrent writers and retries ran out.
	ErrConflict = errors.New("inventory_conflict")
)
