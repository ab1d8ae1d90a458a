package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"dorm-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MoveTarget describes where a student should end up. Exactly one of the two
// shapes is populated: an on-campus room (with optional bed label) or an
// off-campus address.
type MoveTarget struct {
	Kind models.ResidenceKind

	HostelID uint
	RoomID   uint
	BedLabel string

	OffCampusHostelName string
	OffCampusRoomNumber string
	OffCampusArea       string
}

// ResidenceService is the residence ledger: the one-per-student housing
// assignment, kept in lockstep with the room directory's occupancy counters.
type ResidenceService struct {
	DB    *gorm.DB
	Rooms *RoomService
}

func NewResidenceService(db *gorm.DB, rooms *RoomService) *ResidenceService {
	return &ResidenceService{DB: db, Rooms: rooms}
}

func (s *ResidenceService) GetByStudent(studentID uint) (models.Residence, error) {
	var residence models.Residence
	err := s.DB.Preload("Hostel").Preload("Room").
		Where("student_id = ?", studentID).First(&residence).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return residence, fmt.Errorf("%w: no residence for student %d", ErrNotFound, studentID)
		}
		return residence, fmt.Errorf("failed to retrieve residence: %w", err)
	}
	return residence, nil
}

// AllocateOnCampus assigns a student to a room/bed immediately. The capacity
// and gender checks and the occupancy increment run under the room row lock
// so two racing allocations cannot both pass the capacity check.
func (s *ResidenceService) AllocateOnCampus(studentID, roomID uint, bedLabel string) (models.Residence, error) {
	var residence models.Residence
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Residence
		err := tx.Where("student_id = ?", studentID).First(&existing).Error
		if err == nil {
			return fmt.Errorf("%w: student %d already has a residence", ErrAlreadyResident, studentID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing residence: %w", err)
		}

		room, err := s.Rooms.LockRoom(tx, roomID)
		if err != nil {
			return err
		}
		if err := checkRoomAllocatable(room); err != nil {
			return err
		}

		var student models.Student
		if err := tx.First(&student, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: student %d", ErrNotFound, studentID)
			}
			return fmt.Errorf("failed to load student: %w", err)
		}

		var hostel models.Hostel
		if err := tx.First(&hostel, room.HostelID).Error; err != nil {
			return fmt.Errorf("failed to load hostel %d: %w", room.HostelID, err)
		}
		if !student.Gender.Matches(hostel.GenderRestriction) {
			return fmt.Errorf("%w: hostel '%s' is %s-only", ErrGenderMismatch, hostel.Name, hostel.GenderRestriction)
		}

		bed, err := s.resolveBedLabel(tx, room, bedLabel)
		if err != nil {
			return err
		}

		if err := s.Rooms.AdjustOccupancy(tx, room.ID, +1); err != nil {
			return err
		}

		residence = models.Residence{
			StudentID:   studentID,
			Kind:        models.ResidenceOnCampus,
			HostelID:    &hostel.ID,
			RoomID:      &room.ID,
			BedLabel:    bed,
			AllocatedAt: time.Now().UTC(),
		}
		if err := tx.Create(&residence).Error; err != nil {
			if isDuplicateKey(err) {
				return fmt.Errorf("%w: residence for student %d was created concurrently", ErrConcurrentConflict, studentID)
			}
			return fmt.Errorf("failed to create residence: %w", err)
		}
		return nil
	})
	return residence, err
}

// AllocateOffCampus records an off-campus address. No capacity or gender
// checks apply; only the one-residence-per-student rule.
func (s *ResidenceService) AllocateOffCampus(studentID uint, hostelName, roomNumber, area string) (models.Residence, error) {
	hostelName = strings.TrimSpace(hostelName)
	if hostelName == "" {
		return models.Residence{}, fmt.Errorf("%w: off-campus hostel name is required", ErrValidation)
	}

	var residence models.Residence
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Residence
		err := tx.Where("student_id = ?", studentID).First(&existing).Error
		if err == nil {
			return fmt.Errorf("%w: student %d already has a residence", ErrAlreadyResident, studentID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing residence: %w", err)
		}

		var student models.Student
		if err := tx.First(&student, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: student %d", ErrNotFound, studentID)
			}
			return fmt.Errorf("failed to load student: %w", err)
		}

		residence = models.Residence{
			StudentID:           studentID,
			Kind:                models.ResidenceOffCampus,
			OffCampusHostelName: hostelName,
			OffCampusRoomNumber: strings.TrimSpace(roomNumber),
			OffCampusArea:       strings.TrimSpace(area),
			AllocatedAt:         time.Now().UTC(),
		}
		if err := tx.Create(&residence).Error; err != nil {
			if isDuplicateKey(err) {
				return fmt.Errorf("%w: residence for student %d was created concurrently", ErrConcurrentConflict, studentID)
			}
			return fmt.Errorf("failed to create residence: %w", err)
		}
		return nil
	})
	return residence, err
}

// MoveStudent places a student at target, freeing whatever they held before,
// as one atomic unit. Used by booking approval; MoveStudentTx is exposed so
// the approval transaction can span the decision and the move.
func (s *ResidenceService) MoveStudent(studentID uint, target MoveTarget) (models.Residence, error) {
	var residence models.Residence
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		residence, txErr = s.MoveStudentTx(tx, studentID, target)
		return txErr
	})
	return residence, err
}

// MoveStudentTx performs the move inside tx. Affected room rows (old and new)
// are locked in ascending id order before any check, so concurrent moves over
// the same rooms serialize without deadlocking. If any check on the new room
// fails the transaction aborts and neither room's occupancy changes.
func (s *ResidenceService) MoveStudentTx(tx *gorm.DB, studentID uint, target MoveTarget) (models.Residence, error) {
	var zero models.Residence

	var current models.Residence
	hasCurrent := true
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_id = ?", studentID).First(&current).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, fmt.Errorf("failed to load current residence: %w", err)
		}
		hasCurrent = false
	}

	var oldRoomID uint
	if hasCurrent && current.Kind == models.ResidenceOnCampus && current.RoomID != nil {
		oldRoomID = *current.RoomID
	}

	// Lock every affected room row in ascending id order.
	lockIDs := make([]uint, 0, 2)
	if oldRoomID != 0 {
		lockIDs = append(lockIDs, oldRoomID)
	}
	if target.Kind == models.ResidenceOnCampus && target.RoomID != 0 && target.RoomID != oldRoomID {
		lockIDs = append(lockIDs, target.RoomID)
	}
	sort.Slice(lockIDs, func(i, j int) bool { return lockIDs[i] < lockIDs[j] })

	locked := make(map[uint]models.Room, len(lockIDs))
	for _, id := range lockIDs {
		room, err := s.Rooms.LockRoom(tx, id)
		if err != nil {
			return zero, err
		}
		locked[id] = room
	}

	next := models.Residence{
		StudentID:   studentID,
		AllocatedAt: time.Now().UTC(),
	}
	if hasCurrent {
		next.ID = current.ID
		next.CreatedAt = current.CreatedAt
	}

	switch target.Kind {
	case models.ResidenceOnCampus:
		if target.RoomID == 0 {
			return zero, fmt.Errorf("%w: target room is required for an on-campus move", ErrValidation)
		}
		newRoom := locked[target.RoomID]
		if target.HostelID != 0 && target.HostelID != newRoom.HostelID {
			return zero, fmt.Errorf("%w: room %d does not belong to hostel %d", ErrValidation, newRoom.ID, target.HostelID)
		}

		sameRoom := oldRoomID == newRoom.ID
		if !sameRoom {
			if err := checkRoomAllocatable(newRoom); err != nil {
				return zero, err
			}
		}

		var student models.Student
		if err := tx.First(&student, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return zero, fmt.Errorf("%w: student %d", ErrNotFound, studentID)
			}
			return zero, fmt.Errorf("failed to load student: %w", err)
		}
		var hostel models.Hostel
		if err := tx.First(&hostel, newRoom.HostelID).Error; err != nil {
			return zero, fmt.Errorf("failed to load hostel %d: %w", newRoom.HostelID, err)
		}
		if !student.Gender.Matches(hostel.GenderRestriction) {
			return zero, fmt.Errorf("%w: hostel '%s' is %s-only", ErrGenderMismatch, hostel.Name, hostel.GenderRestriction)
		}

		bed, err := s.resolveBedLabelExcluding(tx, newRoom, target.BedLabel, studentID)
		if err != nil {
			return zero, err
		}

		if !sameRoom {
			if oldRoomID != 0 {
				if err := s.Rooms.AdjustOccupancy(tx, oldRoomID, -1); err != nil {
					return zero, err
				}
			}
			if err := s.Rooms.AdjustOccupancy(tx, newRoom.ID, +1); err != nil {
				return zero, err
			}
		}

		next.Kind = models.ResidenceOnCampus
		next.HostelID = &hostel.ID
		next.RoomID = &newRoom.ID
		next.BedLabel = bed

	case models.ResidenceOffCampus:
		if strings.TrimSpace(target.OffCampusHostelName) == "" {
			return zero, fmt.Errorf("%w: off-campus hostel name is required", ErrValidation)
		}
		if oldRoomID != 0 {
			if err := s.Rooms.AdjustOccupancy(tx, oldRoomID, -1); err != nil {
				return zero, err
			}
		}
		next.Kind = models.ResidenceOffCampus
		next.OffCampusHostelName = strings.TrimSpace(target.OffCampusHostelName)
		next.OffCampusRoomNumber = strings.TrimSpace(target.OffCampusRoomNumber)
		next.OffCampusArea = strings.TrimSpace(target.OffCampusArea)

	default:
		return zero, fmt.Errorf("%w: unknown residence kind %q", ErrValidation, target.Kind)
	}

	if hasCurrent {
		// Full overwrite: fields of the old kind are cleared, nothing lingers.
		if err := tx.Model(&models.Residence{}).Where("id = ?", current.ID).
			Updates(map[string]interface{}{
				"kind":                   next.Kind,
				"hostel_id":              next.HostelID,
				"room_id":                next.RoomID,
				"bed_label":              next.BedLabel,
				"off_campus_hostel_name": next.OffCampusHostelName,
				"off_campus_room_number": next.OffCampusRoomNumber,
				"off_campus_area":        next.OffCampusArea,
				"allocated_at":           next.AllocatedAt,
			}).Error; err != nil {
			return zero, fmt.Errorf("failed to rewrite residence: %w", err)
		}
	} else {
		if err := tx.Create(&next).Error; err != nil {
			if isDuplicateKey(err) {
				return zero, fmt.Errorf("%w: residence for student %d was created concurrently", ErrConcurrentConflict, studentID)
			}
			return zero, fmt.Errorf("failed to create residence: %w", err)
		}
	}
	return next, nil
}

// Vacate removes the student's residence and releases the bed when on-campus.
func (s *ResidenceService) Vacate(studentID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var residence models.Residence
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_id = ?", studentID).First(&residence).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: no residence for student %d", ErrNotFound, studentID)
			}
			return fmt.Errorf("failed to load residence: %w", err)
		}

		if residence.Kind == models.ResidenceOnCampus && residence.RoomID != nil {
			if _, err := s.Rooms.LockRoom(tx, *residence.RoomID); err != nil {
				return err
			}
			if err := s.Rooms.AdjustOccupancy(tx, *residence.RoomID, -1); err != nil {
				return err
			}
		}

		if err := tx.Delete(&residence).Error; err != nil {
			return fmt.Errorf("failed to delete residence: %w", err)
		}
		return nil
	})
}

// checkRoomAllocatable rejects rooms that cannot take another student. A room
// under maintenance is ineligible regardless of occupancy.
func checkRoomAllocatable(room models.Room) error {
	if room.Status == models.RoomStatusMaintenance {
		return fmt.Errorf("%w: room %d is under maintenance", ErrRoomFull, room.ID)
	}
	if room.CurrentOccupancy >= room.Capacity {
		return fmt.Errorf("%w: room %d is at capacity (%d/%d)", ErrRoomFull, room.ID, room.CurrentOccupancy, room.Capacity)
	}
	return nil
}

// resolveBedLabel picks or validates a bed label for a room. The caller must
// hold the room's row lock, which also stabilizes the room's residence rows.
func (s *ResidenceService) resolveBedLabel(tx *gorm.DB, room models.Room, requested string) (string, error) {
	return s.resolveBedLabelExcluding(tx, room, requested, 0)
}

func (s *ResidenceService) resolveBedLabelExcluding(tx *gorm.DB, room models.Room, requested string, excludeStudentID uint) (string, error) {
	var occupants []models.Residence
	q := tx.Where("room_id = ?", room.ID)
	if excludeStudentID != 0 {
		q = q.Where("student_id <> ?", excludeStudentID)
	}
	if err := q.Find(&occupants).Error; err != nil {
		return "", fmt.Errorf("failed to load room occupants: %w", err)
	}

	taken := make(map[string]bool, len(occupants))
	for _, occ := range occupants {
		taken[strings.ToLower(strings.TrimSpace(occ.BedLabel))] = true
	}

	requested = strings.TrimSpace(requested)
	if requested != "" {
		if taken[strings.ToLower(requested)] {
			return "", fmt.Errorf("%w: bed '%s' in room %d is occupied", ErrValidation, requested, room.ID)
		}
		return requested, nil
	}

	// Auto-assign the first free label, Bed A through Bed <capacity>.
	for i := 0; i < room.Capacity; i++ {
		label := fmt.Sprintf("Bed %c", rune('A'+i))
		if !taken[strings.ToLower(label)] {
			return label, nil
		}
	}
	return "", fmt.Errorf("%w: room %d has no free bed", ErrRoomFull, room.ID)
}
