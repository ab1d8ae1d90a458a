package controllers

import (
	"net/http"
	"strconv"

	"dorm-backend/models"
	"dorm-backend/services"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
)

type HostelController struct {
	Hostels *services.HostelService
}

func NewHostelController(svc *services.HostelService) *HostelController {
	return &HostelController{Hostels: svc}
}

// GET /api/hostels
func (hc *HostelController) GetHostels(c *gin.Context) {
	hostels, err := hc.Hostels.GetAll()
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, hostels)
}

// GET /api/hostels/:id
func (hc *HostelController) GetHostelByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid hostel id")
		return
	}
	hostel, err := hc.Hostels.GetByID(uint(id))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, hostel)
}

type createHostelPayload struct {
	Name              string `json:"name" binding:"required"`
	GenderRestriction string `json:"genderRestriction" binding:"required"`
	TotalRoomCount    int    `json:"totalRoomCount"`
	Location          string `json:"location"`
	Description       string `json:"description"`
	WardenID          *uint  `json:"wardenId"`
}

// POST /api/hostels
func (hc *HostelController) CreateHostel(c *gin.Context) {
	var payload createHostelPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	hostel := models.Hostel{
		Name:              payload.Name,
		GenderRestriction: models.Gender(payload.GenderRestriction),
		TotalRoomCount:    payload.TotalRoomCount,
		Location:          payload.Location,
		Description:       payload.Description,
		WardenID:          payload.WardenID,
	}
	if err := hc.Hostels.Create(&hostel); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hostel)
}
