package models

import (
	"strings"

	"gorm.io/gorm"
)

// Gender restriction of a hostel / declared gender of a student.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender normalizes free-form input ("Male", " FEMALE ") to a closed value.
func ParseGender(s string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale, true
	case "female":
		return GenderFemale, true
	}
	return "", false
}

// Matches compares case-insensitively so directory data with mixed casing
// ("Male") still passes the eligibility check.
func (g Gender) Matches(other Gender) bool {
	return strings.EqualFold(string(g), string(other))
}

type Hostel struct {
	gorm.Model

	Name              string `json:"name" gorm:"uniqueIndex;type:varchar(100)"`
	GenderRestriction Gender `json:"genderRestriction" gorm:"column:gender_restriction;type:varchar(10)"`
	TotalRoomCount    int    `json:"totalRoomCount" gorm:"column:total_room_count"`
	Location          string `json:"location" gorm:"type:varchar(191)"`
	Description       string `json:"description" gorm:"type:text"`

	// Weak reference to a staff record; ownership of staff data is external.
	WardenID *uint `json:"wardenId,omitempty" gorm:"column:warden_id"`

	Rooms []Room `json:"rooms,omitempty" gorm:"foreignKey:HostelID"`
}
