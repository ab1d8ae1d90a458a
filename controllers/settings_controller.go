package controllers

import (
	"errors"
	"net/http"

	"dorm-backend/config"
	"dorm-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type campusSettingsPayload struct {
	OfficeName    string `json:"office_name"`
	ContactEmail  string `json:"contact_email"`
	ContactPhone  string `json:"contact_phone"`
	BookingNotice string `json:"booking_notice"`
}

func GetCampusSettings(c *gin.Context) {
	var settings models.CampusSetting
	if err := config.DB.First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"campus": models.CampusSetting{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campus": settings})
}

func UpdateCampusSettings(c *gin.Context) {
	var payload campusSettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var settings models.CampusSetting
	err := config.DB.First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = models.CampusSetting{
				OfficeName:    payload.OfficeName,
				ContactEmail:  payload.ContactEmail,
				ContactPhone:  payload.ContactPhone,
				BookingNotice: payload.BookingNotice,
			}
			if err := config.DB.Create(&settings).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"campus": settings})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	settings.OfficeName = payload.OfficeName
	settings.ContactEmail = payload.ContactEmail
	settings.ContactPhone = payload.ContactPhone
	settings.BookingNotice = payload.BookingNotice

	if err := config.DB.Save(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campus": settings})
}
