package models

import (
	"gorm.io/gorm"
)

// Student mirrors the slice of the external student directory this engine
// needs: identity plus declared gender for the hostel eligibility check.
type Student struct {
	gorm.Model

	StudentNumber string `gorm:"column:student_number;uniqueIndex;size:50" json:"studentNumber"`
	FullName      string `gorm:"size:255" json:"fullName"`
	Gender        Gender `gorm:"type:varchar(10)" json:"gender"`
	Email         string `gorm:"size:150" json:"email"`
}
