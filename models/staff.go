package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff records exist here only so approver and warden references can be
// validated; staff management itself lives in an external system.
type Staff struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	FullName     string         `gorm:"size:255" json:"full_name"`
	Email        string         `gorm:"uniqueIndex;size:150" json:"email"`
	Role         string         `gorm:"size:50" json:"role"`
	PasswordHash string         `gorm:"size:255" json:"-"` // seeded bootstrap credential, no auth endpoints here
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
