package controllers

import (
	"net/http"
	"strconv"

	"dorm-backend/models"
	"dorm-backend/services"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{Rooms: svc}
}

// GET /api/rooms?hostel_id=&status=&floor=
func (rc *RoomController) GetRooms(c *gin.Context) {
	var filter services.RoomFilter
	if raw := c.Query("hostel_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid hostel_id filter")
			return
		}
		filter.HostelID = uint(id)
	}
	filter.Status = models.RoomStatus(c.Query("status"))
	filter.Floor = c.Query("floor")

	rooms, err := rc.Rooms.List(filter)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GET /api/rooms/:id
func (rc *RoomController) GetRoomByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid room id")
		return
	}
	room, err := rc.Rooms.GetByID(uint(id))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

type createRoomPayload struct {
	HostelID   uint   `json:"hostelId" binding:"required"`
	RoomNumber string `json:"roomNumber" binding:"required"`
	Floor      string `json:"floor"`
	Capacity   int    `json:"capacity" binding:"required"`
	RoomType   string `json:"roomType"`
}

// POST /api/rooms
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var payload createRoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	room := models.Room{
		HostelID:   payload.HostelID,
		RoomNumber: payload.RoomNumber,
		Floor:      payload.Floor,
		Capacity:   payload.Capacity,
		RoomType:   payload.RoomType,
	}
	if err := rc.Rooms.Create(&room); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

type maintenancePayload struct {
	Maintenance *bool `json:"maintenance" binding:"required"`
}

// PATCH /api/rooms/:id/maintenance
func (rc *RoomController) SetMaintenance(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid room id")
		return
	}

	var payload maintenancePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	room, err := rc.Rooms.SetMaintenance(uint(id), *payload.Maintenance)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}
