// controllers/room_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"hostel-backend/services"
	"hostel-backend/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

// GetRoom handles GET /api/rooms/:id.
func (rc *RoomController) GetRoom(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid room id")
		return
	}

	room, err := rc.RoomSvc.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Room not found")
			return
		}
		log.Printf("get room %d: %v", id, err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load room")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, room)
}

// GetRoomAvailability handles GET /api/rooms/:id/availability.
func (rc *RoomController) GetRoomAvailability(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid room id")
		return
	}

	summary, err := rc.RoomSvc.Availability(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Room not found")
			return
		}
		log.Printf("room availability %d: %v", id, err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load availability")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, summary)
}

// GetHostelRooms handles GET /api/hostels/:id/rooms.
func (rc *RoomController) GetHostelRooms(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid hostel id")
		return
	}

	rooms, err := rc.RoomSvc.ListByHostel(c.Request.Context(), uint(id))
	if err != nil {
		log.Printf("list rooms for hostel %d: %v", id, err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load rooms")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, rooms)
}
