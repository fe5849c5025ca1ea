package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hostel-backend/controllers"
	"hostel-backend/models"
	"hostel-backend/routes"
	"hostel-backend/services"
)

func setupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Hostel{},
		&models.Student{},
		&models.Room{},
		&models.Booking{},
	))

	bc := controllers.NewBookingController(services.NewReservationService(db))
	rc := controllers.NewRoomController(services.NewRoomService(db))
	return routes.SetupRouter(bc, rc), db
}

func seedTestRoom(t *testing.T, db *gorm.DB, capacity, units int) models.Room {
	t.Helper()

	hostel := models.Hostel{OwnerID: 7, Name: "API Test Hostel", City: "Chennai"}
	require.NoError(t, db.Create(&hostel).Error)

	room := models.Room{
		HostelID:   hostel.ID,
		TypeName:   "2-sharing",
		Price:      5500,
		Capacity:   capacity,
		TotalUnits: units,
		Available:  units,
	}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func postBooking(router *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestCreateBookingEndpoint(t *testing.T) {
	router, db := setupTestServer(t)
	room := seedTestRoom(t, db, 2, 3)

	w := postBooking(router, map[string]interface{}{
		"room_id":         room.ID,
		"student_id":      42,
		"owner_id":        7,
		"total_amount":    5500,
		"check_in":        "2026-09-01",
		"duration_months": 6,
		"payment":         map[string]string{"method": "upi"},
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	var booking models.Booking
	require.NoError(t, json.Unmarshal(env.Data, &booking))
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.NotEmpty(t, booking.ReferenceCode)
}

func TestCreateBookingValidation(t *testing.T) {
	router, _ := setupTestServer(t)

	// room_id is required by the binding
	w := postBooking(router, map[string]interface{}{"student_id": 42})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// bad date format
	w = postBooking(router, map[string]interface{}{
		"room_id":    1,
		"student_id": 42,
		"check_in":   "01/09/2026",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBookingRoomNotFound(t *testing.T) {
	router, _ := setupTestServer(t)

	w := postBooking(router, map[string]interface{}{
		"room_id":    9999,
		"student_id": 42,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBookingSoldOut(t *testing.T) {
	router, db := setupTestServer(t)
	room := seedTestRoom(t, db, 1, 1)

	w := postBooking(router, map[string]interface{}{"room_id": room.ID, "student_id": 42})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postBooking(router, map[string]interface{}{"room_id": room.ID, "student_id": 43})
	assert.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	assert.Contains(t, env.Error, "completely full")
}

func TestCancelBookingEndpoint(t *testing.T) {
	router, db := setupTestServer(t)
	room := seedTestRoom(t, db, 2, 3)

	w := postBooking(router, map[string]interface{}{"room_id": room.ID, "student_id": 42})
	require.Equal(t, http.StatusCreated, w.Code)

	var booking models.Booking
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &booking))

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/bookings/%d", booking.ID), nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusOK, w2.Code)

	// second cancel: the record is gone
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req)
	assert.Equal(t, http.StatusNotFound, w3.Code)
}

func TestCancelBlockedByInventoryCeiling(t *testing.T) {
	router, db := setupTestServer(t)
	room := seedTestRoom(t, db, 2, 3)

	// Stale booking against a fully vacant room: releasing it would push
	// Available past TotalUnits, so cancellation must refuse and keep
	// the record.
	roomID := room.ID
	booking := models.Booking{
		RoomID:        &roomID,
		HostelID:      room.HostelID,
		StudentID:     42,
		ReferenceCode: "HB-STALE002",
		Status:        models.BookingStatusConfirmed,
	}
	require.NoError(t, db.Create(&booking).Error)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/bookings/%d", booking.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	assert.Contains(t, env.Error, "conflicts with room inventory")

	require.NoError(t, db.First(&models.Booking{}, booking.ID).Error, "booking must survive a refused cancellation")
}

func TestStudentBookingsEndpoint(t *testing.T) {
	router, db := setupTestServer(t)
	room := seedTestRoom(t, db, 2, 3)

	for i := 0; i < 2; i++ {
		w := postBooking(router, map[string]interface{}{"room_id": room.ID, "student_id": 42})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/students/42/bookings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var list []models.Booking
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &list))
	assert.Len(t, list, 2)
}

func TestRoomAvailabilityEndpoint(t *testing.T) {
	router, db := setupTestServer(t)
	room := seedTestRoom(t, db, 2, 3)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/rooms/%d/availability", room.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var summary services.RoomAvailability
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &summary))
	assert.Equal(t, 6, summary.SlotsRemaining)
	assert.False(t, summary.SoldOut)
}
