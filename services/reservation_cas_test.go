package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

var selectRoomSQL = regexp.QuoteMeta("SELECT * FROM `rooms` WHERE `rooms`.`id` = ?")

func roomRow(available, occupancy int) *sqlmock.Rows {
	return sqlmock.NewRows(
		[]string{"id", "hostel_id", "capacity", "total_units", "available", "current_occupancy"},
	).AddRow(1, 1, 2, 3, available, occupancy)
}

// The counters move under the first transaction (zero rows matched the
// compare-and-swap); the second attempt rereads and succeeds.
func TestReserveRetriesOnCASConflict(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReservationService(db)

	// Attempt 1: stale counters, UPDATE matches nothing.
	mock.ExpectBegin()
	mock.ExpectQuery(selectRoomSQL).WillReturnRows(roomRow(3, 0))
	mock.ExpectExec("UPDATE `rooms` SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	// Attempt 2: fresh counters, CAS lands, booking is written.
	mock.ExpectBegin()
	mock.ExpectQuery(selectRoomSQL).WillReturnRows(roomRow(3, 1))
	mock.ExpectExec("UPDATE `rooms` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `bookings`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	booking, err := svc.Reserve(context.Background(), testInput(1))
	require.NoError(t, err)
	assert.Equal(t, uint(1), booking.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveGivesUpAfterRepeatedConflicts(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReservationService(db)

	for i := 0; i < casMaxRetries; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery(selectRoomSQL).WillReturnRows(roomRow(3, 0))
		mock.ExpectExec("UPDATE `rooms` SET").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()
	}

	_, err := svc.Reserve(context.Background(), testInput(1))
	assert.ErrorIs(t, err, ErrConflict)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelRetriesOnCASConflict(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReservationService(db)

	bookingRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(
			[]string{"id", "room_id", "hostel_id", "student_id", "status"},
		).AddRow(9, 1, 1, 42, "Confirmed")
	}
	selectBookingSQL := regexp.QuoteMeta("SELECT * FROM `bookings` WHERE `bookings`.`id` = ?")

	// Attempt 1 loses the race on the counters.
	mock.ExpectBegin()
	mock.ExpectQuery(selectBookingSQL).WillReturnRows(bookingRow())
	mock.ExpectQuery(selectRoomSQL).WillReturnRows(roomRow(2, 0))
	mock.ExpectExec("UPDATE `rooms` SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	// Attempt 2 succeeds and soft-deletes the booking.
	mock.ExpectBegin()
	mock.ExpectQuery(selectBookingSQL).WillReturnRows(bookingRow())
	mock.ExpectQuery(selectRoomSQL).WillReturnRows(roomRow(2, 1))
	mock.ExpectExec("UPDATE `rooms` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `bookings` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.Cancel(context.Background(), 9))

	assert.NoError(t, mock.ExpectationsWereMet())
}
