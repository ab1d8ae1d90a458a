package controllers

import (
	"net/http"
	"strconv"

	"dorm-backend/services"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
)

type ResidenceController struct {
	Residences *services.ResidenceService
	Students   *services.StudentDirectory
}

func NewResidenceController(residences *services.ResidenceService, students *services.StudentDirectory) *ResidenceController {
	return &ResidenceController{Residences: residences, Students: students}
}

// resolveStudentID accepts a numeric internal id or a student number.
func (rc *ResidenceController) resolveStudentID(c *gin.Context) (uint, bool) {
	identifier := c.Param("studentId")
	if id, err := strconv.ParseUint(identifier, 10, 32); err == nil {
		return uint(id), true
	}
	student, err := rc.Students.FindStudent(identifier)
	if err != nil {
		utils.RespondServiceError(c, err)
		return 0, false
	}
	return student.ID, true
}

// GET /api/residences/:studentId
func (rc *ResidenceController) GetResidence(c *gin.Context) {
	studentID, ok := rc.resolveStudentID(c)
	if !ok {
		return
	}
	residence, err := rc.Residences.GetByStudent(studentID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, residence)
}

// DELETE /api/residences/:studentId
func (rc *ResidenceController) Vacate(c *gin.Context) {
	studentID, ok := rc.resolveStudentID(c)
	if !ok {
		return
	}
	if err := rc.Residences.Vacate(studentID); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "residence vacated"})
}
