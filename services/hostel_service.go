package services

import (
	"errors"
	"fmt"
	"strings"

	"dorm-backend/models"

	"gorm.io/gorm"
)

type HostelService struct {
	DB    *gorm.DB
	Staff *StaffDirectory
}

func NewHostelService(db *gorm.DB, staff *StaffDirectory) *HostelService {
	return &HostelService{DB: db, Staff: staff}
}

func (s *HostelService) GetAll() ([]models.Hostel, error) {
	var hostels []models.Hostel
	if err := s.DB.Order("name ASC").Find(&hostels).Error; err != nil {
		return nil, fmt.Errorf("failed to list hostels: %w", err)
	}
	return hostels, nil
}

func (s *HostelService) GetByID(id uint) (models.Hostel, error) {
	var hostel models.Hostel
	if err := s.DB.Preload("Rooms").First(&hostel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return hostel, fmt.Errorf("%w: hostel %d", ErrNotFound, id)
		}
		return hostel, fmt.Errorf("failed to retrieve hostel: %w", err)
	}
	return hostel, nil
}

func (s *HostelService) Create(hostel *models.Hostel) error {
	hostel.Name = strings.TrimSpace(hostel.Name)
	if hostel.Name == "" {
		return fmt.Errorf("%w: hostel name is required", ErrValidation)
	}
	gender, ok := models.ParseGender(string(hostel.GenderRestriction))
	if !ok {
		return fmt.Errorf("%w: genderRestriction must be male or female", ErrValidation)
	}
	hostel.GenderRestriction = gender

	if hostel.WardenID != nil {
		if err := s.Staff.StaffExists(*hostel.WardenID); err != nil {
			return err
		}
	}

	if err := s.DB.Create(hostel).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: hostel name '%s' already exists", ErrValidation, hostel.Name)
		}
		return fmt.Errorf("failed to create hostel: %w", err)
	}
	return nil
}
