package services

import (
	"hostel-backend/models"
)

// InventoryLedger owns the allocate/release state transitions over a
// room's (available, currentOccupancy) counter pair. Both transitions
// are pure: they take a snapshot and return the next state without
// touching storage, so the caller decides how to persist it.
type InventoryLedger struct{}

// Allocate admits one occupant into the room's currently-filling unit.
// Returns ErrRoomFull when no vacant unit remains; the input snapshot
// is returned unchanged in that case.
func (InventoryLedger) Allocate(room models.Room) (models.Room, error) {
	if room.Available <= 0 {
		return room, ErrRoomFull
	}

	capacity := room.Capacity
	if capacity < 1 {
		capacity = 1
	}

	next := room
	next.CurrentOccupancy++
	if next.CurrentOccupancy >= capacity {
		// Unit saturated: one whole unit consumed, start filling the next.
		next.Available--
		next.CurrentOccupancy = 0
	}
	return next, nil
}

// Release frees one occupant slot, the inverse of Allocate. When the
// occupancy counter would go below zero the unit being vacated was a
// saturated one, so a vacant unit is restored and the counter wraps to
// capacity-1.
//
// Returns ErrOverRelease when restoring a unit would push Available
// past TotalUnits. Rooms migrated before the ceiling existed carry
// TotalUnits == 0 and skip the check.
func (InventoryLedger) Release(room models.Room) (models.Room, error) {
	capacity := room.Capacity
	if capacity < 1 {
		capacity = 1
	}

	next := room
	next.CurrentOccupancy--
	if next.CurrentOccupancy < 0 {
		if room.TotalUnits > 0 && room.Available >= room.TotalUnits {
			return room, ErrOverRelease
		}
		next.Available++
		next.CurrentOccupancy = capacity - 1
	}
	return next, nil
}
