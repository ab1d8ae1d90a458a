package controllers

import (
	"net/http"

	"dorm-backend/services"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
)

type AllocationController struct {
	Allocations *services.AllocationService
}

func NewAllocationController(svc *services.AllocationService) *AllocationController {
	return &AllocationController{Allocations: svc}
}

type onCampusAllocationPayload struct {
	Student  string `json:"student" binding:"required"` // internal id or student number
	RoomID   uint   `json:"roomId" binding:"required"`
	BedLabel string `json:"bedLabel"`
}

// POST /api/allocations/on-campus
func (ac *AllocationController) AllocateOnCampus(c *gin.Context) {
	var payload onCampusAllocationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	residence, err := ac.Allocations.AllocateOnCampus(payload.Student, payload.RoomID, payload.BedLabel)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, residence)
}

type offCampusAllocationPayload struct {
	Student    string `json:"student" binding:"required"`
	HostelName string `json:"hostelName" binding:"required"`
	RoomNumber string `json:"roomNumber"`
	Area       string `json:"area"`
}

// POST /api/allocations/off-campus
func (ac *AllocationController) AllocateOffCampus(c *gin.Context) {
	var payload offCampusAllocationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	residence, err := ac.Allocations.AllocateOffCampus(payload.Student, payload.HostelName, payload.RoomNumber, payload.Area)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, residence)
}
