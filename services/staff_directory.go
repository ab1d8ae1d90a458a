package services

import (
	"errors"
	"fmt"

	"dorm-backend/models"

	"gorm.io/gorm"
)

// StaffDirectory validates approver and warden references. No behavior beyond
// existence is consumed from the external staff system.
type StaffDirectory struct {
	DB *gorm.DB
}

func NewStaffDirectory(db *gorm.DB) *StaffDirectory {
	return &StaffDirectory{DB: db}
}

func (s *StaffDirectory) StaffExists(id uint) error {
	var staff models.Staff
	if err := s.DB.Select("id").First(&staff, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: staff %d", ErrNotFound, id)
		}
		return fmt.Errorf("failed to look up staff: %w", err)
	}
	return nil
}
