package models

import "time"

type CampusSetting struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OfficeName    string    `gorm:"size:255" json:"office_name"`
	ContactEmail  string    `gorm:"size:150" json:"contact_email"`
	ContactPhone  string    `gorm:"size:50" json:"contact_phone"`
	BookingNotice string    `gorm:"type:text" json:"booking_notice"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
