package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dorm-backend/models"

	"gorm.io/gorm"
)

// StudentDirectory is the consumed slice of the external student system:
// resolve an identifier to an internal id and a declared gender.
type StudentDirectory struct {
	DB *gorm.DB
}

func NewStudentDirectory(db *gorm.DB) *StudentDirectory {
	return &StudentDirectory{DB: db}
}

// FindStudent resolves a numeric internal id or a student number.
func (s *StudentDirectory) FindStudent(identifier string) (models.Student, error) {
	var student models.Student

	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return student, fmt.Errorf("%w: student identifier is required", ErrValidation)
	}

	q := s.DB
	if id, convErr := strconv.ParseUint(identifier, 10, 32); convErr == nil {
		q = q.Where("id = ? OR student_number = ?", uint(id), identifier)
	} else {
		q = q.Where("student_number = ?", identifier)
	}

	if err := q.First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return student, fmt.Errorf("%w: student %s", ErrNotFound, identifier)
		}
		return student, fmt.Errorf("failed to look up student: %w", err)
	}
	return student, nil
}

// GetStudent looks up by internal id only.
func (s *StudentDirectory) GetStudent(id uint) (models.Student, error) {
	var student models.Student
	if err := s.DB.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return student, fmt.Errorf("%w: student %d", ErrNotFound, id)
		}
		return student, fmt.Errorf("failed to look up student: %w", err)
	}
	return student, nil
}
