package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dorm-backend/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService owns the booking request workflow: submission, listing, and
// the pending → approved/rejected decision. Approval delegates the actual
// move to the residence ledger inside the same transaction.
type BookingService struct {
	DB         *gorm.DB
	Students   *StudentDirectory
	Staff      *StaffDirectory
	Residences *ResidenceService
}

func NewBookingService(db *gorm.DB, students *StudentDirectory, staff *StaffDirectory, residences *ResidenceService) *BookingService {
	return &BookingService{DB: db, Students: students, Staff: staff, Residences: residences}
}

// SubmitBookingInput is the student-facing submission payload, already bound
// from transport. Exactly one of the two target shapes must be set.
type SubmitBookingInput struct {
	StudentIdentifier string
	RequestType       string
	Note              string

	RequestedHostelID uint
	RequestedRoomID   uint
	RequestedBed      string

	OffCampusHostelName string
	OffCampusRoomNumber string
	OffCampusArea       string
}

// validateTarget enforces the on-campus XOR off-campus target rule.
func (in *SubmitBookingInput) validateTarget() error {
	onCampus := in.RequestedRoomID != 0 || in.RequestedHostelID != 0 || strings.TrimSpace(in.RequestedBed) != ""
	offCampus := strings.TrimSpace(in.OffCampusHostelName) != "" ||
		strings.TrimSpace(in.OffCampusRoomNumber) != "" ||
		strings.TrimSpace(in.OffCampusArea) != ""

	switch {
	case onCampus && offCampus:
		return fmt.Errorf("%w: request cannot target both an on-campus room and an off-campus address", ErrValidation)
	case !onCampus && !offCampus:
		return fmt.Errorf("%w: request must name an on-campus room or an off-campus address", ErrValidation)
	case onCampus && in.RequestedRoomID == 0:
		return fmt.Errorf("%w: requestedRoomId is required for an on-campus target", ErrValidation)
	case offCampus && strings.TrimSpace(in.OffCampusHostelName) == "":
		return fmt.Errorf("%w: off-campus hostel name is required", ErrValidation)
	}
	return nil
}

func parseRequestType(s string) (models.RequestType, error) {
	switch models.RequestType(strings.ToLower(strings.TrimSpace(s))) {
	case models.RequestTypeNew:
		return models.RequestTypeNew, nil
	case models.RequestTypeTransfer:
		return models.RequestTypeTransfer, nil
	}
	return "", fmt.Errorf("%w: unknown requestType %q", ErrValidation, s)
}

// Submit creates a pending booking request. For transfers the current room is
// snapshotted for audit; the decision later re-reads live state under lock.
func (s *BookingService) Submit(in SubmitBookingInput) (models.BookingRequest, error) {
	var booking models.BookingRequest

	requestType, err := parseRequestType(in.RequestType)
	if err != nil {
		return booking, err
	}
	if err := in.validateTarget(); err != nil {
		return booking, err
	}

	student, err := s.Students.FindStudent(in.StudentIdentifier)
	if err != nil {
		return booking, err
	}

	if in.RequestedRoomID != 0 {
		var room models.Room
		if err := s.DB.First(&room, in.RequestedRoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return booking, fmt.Errorf("%w: room %d", ErrNotFound, in.RequestedRoomID)
			}
			return booking, fmt.Errorf("failed to check requested room: %w", err)
		}
		if in.RequestedHostelID != 0 && in.RequestedHostelID != room.HostelID {
			return booking, fmt.Errorf("%w: room %d does not belong to hostel %d", ErrValidation, room.ID, in.RequestedHostelID)
		}
		in.RequestedHostelID = room.HostelID
	}

	booking = models.BookingRequest{
		StudentID:     student.ID,
		ReferenceCode: uuid.NewString(),
		RequestType:   requestType,
		Note:          strings.TrimSpace(in.Note),
		Status:        models.BookingStatusPending,
		RequestedAt:   time.Now().UTC(),

		RequestedBed:                 strings.TrimSpace(in.RequestedBed),
		RequestedOffCampusHostelName: strings.TrimSpace(in.OffCampusHostelName),
		RequestedOffCampusRoomNumber: strings.TrimSpace(in.OffCampusRoomNumber),
		RequestedOffCampusArea:       strings.TrimSpace(in.OffCampusArea),
	}
	if in.RequestedRoomID != 0 {
		roomID := in.RequestedRoomID
		hostelID := in.RequestedHostelID
		booking.RequestedRoomID = &roomID
		booking.RequestedHostelID = &hostelID
	}

	// Audit snapshot of the residence held at submission time.
	if current, resErr := s.Residences.GetByStudent(student.ID); resErr == nil {
		if requestType == models.RequestTypeTransfer && current.Kind == models.ResidenceOnCampus {
			booking.CurrentRoomID = current.RoomID
		}
		if raw, marshalErr := json.Marshal(current); marshalErr == nil {
			booking.ResidenceSnapshot = datatypes.JSON(raw)
		}
	} else if !errors.Is(resErr, ErrNotFound) {
		return booking, resErr
	}

	if err := s.DB.Create(&booking).Error; err != nil {
		return booking, fmt.Errorf("failed to create booking request: %w", err)
	}
	return booking, nil
}

// BookingFilter narrows List results; zero values mean "no filter".
type BookingFilter struct {
	Status    models.BookingStatus
	StudentID uint
}

func (s *BookingService) List(filter BookingFilter) ([]models.BookingRequest, error) {
	q := s.DB.Model(&models.BookingRequest{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.StudentID != 0 {
		q = q.Where("student_id = ?", filter.StudentID)
	}

	var bookings []models.BookingRequest
	if err := q.Preload("Student").Preload("RequestedRoom").
		Order("requested_at DESC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list booking requests: %w", err)
	}
	return bookings, nil
}

// Get accepts a numeric id or a reference code.
func (s *BookingService) Get(idOrRef string) (models.BookingRequest, error) {
	var booking models.BookingRequest
	q := s.DB.Preload("Student").Preload("RequestedRoom")
	if id, convErr := strconv.ParseUint(idOrRef, 10, 32); convErr == nil {
		q = q.Where("id = ?", uint(id))
	} else {
		q = q.Where("reference_code = ?", idOrRef)
	}
	err := q.First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking, fmt.Errorf("%w: booking %s", ErrNotFound, idOrRef)
		}
		return booking, fmt.Errorf("failed to retrieve booking request: %w", err)
	}
	return booking, nil
}

// Decide moves a pending request to approved or rejected, exactly once.
// Approval runs the ledger move in the same transaction: if the move fails,
// the decision rolls back and the request stays pending. The final UPDATE is
// a compare-and-set on status = pending so two racing decisions cannot both
// commit.
func (s *BookingService) Decide(bookingID uint, decision models.BookingStatus, approverID uint, note string) (models.BookingRequest, error) {
	var booking models.BookingRequest

	if decision != models.BookingStatusApproved && decision != models.BookingStatusRejected {
		return booking, fmt.Errorf("%w: decision must be approved or rejected", ErrValidation)
	}
	if err := s.Staff.StaffExists(approverID); err != nil {
		return booking, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
			}
			return fmt.Errorf("failed to load booking request: %w", err)
		}

		if !booking.Status.CanTransition(decision) {
			return fmt.Errorf("%w: booking %d is already %s", ErrAlreadyDecided, bookingID, booking.Status)
		}

		if decision == models.BookingStatusApproved {
			target := MoveTarget{}
			if booking.OnCampusTarget() {
				target.Kind = models.ResidenceOnCampus
				target.RoomID = *booking.RequestedRoomID
				target.BedLabel = booking.RequestedBed
				if booking.RequestedHostelID != nil {
					target.HostelID = *booking.RequestedHostelID
				}
			} else {
				target.Kind = models.ResidenceOffCampus
				target.OffCampusHostelName = booking.RequestedOffCampusHostelName
				target.OffCampusRoomNumber = booking.RequestedOffCampusRoomNumber
				target.OffCampusArea = booking.RequestedOffCampusArea
			}

			if _, err := s.Residences.MoveStudentTx(tx, booking.StudentID, target); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		res := tx.Model(&models.BookingRequest{}).
			Where("id = ? AND status = ?", bookingID, models.BookingStatusPending).
			Updates(map[string]interface{}{
				"status":        decision,
				"approved_by":   approverID,
				"approved_at":   now,
				"decision_note": strings.TrimSpace(note),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to record decision: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: decision for booking %d lost a race", ErrConcurrentConflict, bookingID)
		}

		booking.Status = decision
		booking.ApprovedBy = &approverID
		booking.ApprovedAt = &now
		booking.DecisionNote = strings.TrimSpace(note)
		return nil
	})
	return booking, err
}
