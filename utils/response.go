package utils

import (
	"errors"
	"net/http"

	"dorm-backend/services"

	"github.com/gin-gonic/gin"
)

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// RespondServiceError maps the engine's typed errors to HTTP statuses.
// ConcurrentConflict is flagged retryable so clients know a repeat is safe.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrValidation):
		JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrRoomFull),
		errors.Is(err, services.ErrGenderMismatch),
		errors.Is(err, services.ErrAlreadyResident),
		errors.Is(err, services.ErrAlreadyDecided):
		JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrConcurrentConflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error(), "retryable": true})
	default:
		JSONError(c, http.StatusInternalServerError, err.Error())
	}
}
