package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"dorm-backend/models"
	"dorm-backend/services"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	Bookings *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{Bookings: svc}
}

type submitBookingPayload struct {
	Student     string `json:"student" binding:"required"` // internal id or student number
	RequestType string `json:"requestType" binding:"required"`
	Note        string `json:"note"`

	RequestedHostelID uint   `json:"requestedHostelId"`
	RequestedRoomID   uint   `json:"requestedRoomId"`
	RequestedBed      string `json:"requestedBed"`

	RequestedOffCampusHostelName string `json:"requestedOffCampusHostelName"`
	RequestedOffCampusRoomNumber string `json:"requestedOffCampusRoomNumber"`
	RequestedOffCampusArea       string `json:"requestedOffCampusArea"`
}

// POST /api/bookings
func (bc *BookingController) SubmitBooking(c *gin.Context) {
	var payload submitBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	booking, err := bc.Bookings.Submit(services.SubmitBookingInput{
		StudentIdentifier:   payload.Student,
		RequestType:         payload.RequestType,
		Note:                payload.Note,
		RequestedHostelID:   payload.RequestedHostelID,
		RequestedRoomID:     payload.RequestedRoomID,
		RequestedBed:        payload.RequestedBed,
		OffCampusHostelName: payload.RequestedOffCampusHostelName,
		OffCampusRoomNumber: payload.RequestedOffCampusRoomNumber,
		OffCampusArea:       payload.RequestedOffCampusArea,
	})
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GET /api/bookings?status=&student_id=
func (bc *BookingController) GetBookings(c *gin.Context) {
	var filter services.BookingFilter
	filter.Status = models.BookingStatus(c.Query("status"))
	if raw := c.Query("student_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid student_id filter")
			return
		}
		filter.StudentID = uint(id)
	}

	bookings, err := bc.Bookings.List(filter)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GET /api/bookings/:id  (numeric id or reference code)
func (bc *BookingController) GetBookingDetails(c *gin.Context) {
	booking, err := bc.Bookings.Get(c.Param("id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

type decideBookingPayload struct {
	Decision   string `json:"decision" binding:"required"` // approved | rejected
	ApproverID uint   `json:"approverId" binding:"required"`
	Note       string `json:"note"`
}

// POST /api/bookings/:id/decide
func (bc *BookingController) DecideBooking(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id")
		return
	}

	var payload decideBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	decision := models.BookingStatus(strings.ToLower(strings.TrimSpace(payload.Decision)))
	booking, err := bc.Bookings.Decide(uint(id), decision, payload.ApproverID, payload.Note)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
