package services

import (
	"dorm-backend/models"
)

// AllocationService is the direct-allocation surface used by administrative
// consoles: resolve the student, delegate to the ledger, pass errors through.
type AllocationService struct {
	Students   *StudentDirectory
	Residences *ResidenceService
}

func NewAllocationService(students *StudentDirectory, residences *ResidenceService) *AllocationService {
	return &AllocationService{Students: students, Residences: residences}
}

// AllocateOnCampus assigns the identified student to roomID immediately.
// bedLabel may be blank; the ledger then picks the first free bed.
func (s *AllocationService) AllocateOnCampus(studentIdentifier string, roomID uint, bedLabel string) (models.Residence, error) {
	student, err := s.Students.FindStudent(studentIdentifier)
	if err != nil {
		return models.Residence{}, err
	}
	return s.Residences.AllocateOnCampus(student.ID, roomID, bedLabel)
}

// AllocateOffCampus records the identified student's off-campus address.
func (s *AllocationService) AllocateOffCampus(studentIdentifier, hostelName, roomNumber, area string) (models.Residence, error) {
	student, err := s.Students.FindStudent(studentIdentifier)
	if err != nil {
		return models.Residence{}, err
	}
	return s.Residences.AllocateOffCampus(student.ID, hostelName, roomNumber, area)
}
