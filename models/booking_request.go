package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RequestType string

const (
	RequestTypeNew      RequestType = "new"
	RequestTypeTransfer RequestType = "transfer"
)

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "pending"
	BookingStatusApproved BookingStatus = "approved"
	BookingStatusRejected BookingStatus = "rejected"
)

// CanTransition reports whether a status change is legal. Pending may move to
// approved or rejected exactly once; both decided states are terminal.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	if s != BookingStatusPending {
		return false
	}
	return to == BookingStatusApproved || to == BookingStatusRejected
}

// Decided reports whether the request has reached a terminal state.
func (s BookingStatus) Decided() bool {
	return s == BookingStatusApproved || s == BookingStatusRejected
}

// BookingRequest is a student-submitted request to obtain or change housing.
// Created pending, mutated exactly once at decision time, never deleted.
type BookingRequest struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StudentID     uint        `gorm:"column:student_id;index" json:"studentId"`
	ReferenceCode string      `gorm:"column:reference_code;size:64;uniqueIndex" json:"referenceCode"`
	RequestType   RequestType `gorm:"column:request_type;type:varchar(20)" json:"requestType"`

	// Audit snapshot of the room occupied at submission time. The move itself
	// re-reads live state under lock at approval, never this field.
	CurrentRoomID     *uint          `gorm:"column:current_room_id" json:"currentRoomId,omitempty"`
	ResidenceSnapshot datatypes.JSON `gorm:"column:residence_snapshot" json:"residenceSnapshot,omitempty"`

	// Requested target, on-campus XOR off-campus.
	RequestedHostelID *uint  `gorm:"column:requested_hostel_id" json:"requestedHostelId,omitempty"`
	RequestedRoomID   *uint  `gorm:"column:requested_room_id" json:"requestedRoomId,omitempty"`
	RequestedBed      string `gorm:"column:requested_bed;type:varchar(20)" json:"requestedBed,omitempty"`

	RequestedOffCampusHostelName string `gorm:"column:requested_off_campus_hostel_name;type:varchar(100)" json:"requestedOffCampusHostelName,omitempty"`
	RequestedOffCampusRoomNumber string `gorm:"column:requested_off_campus_room_number;type:varchar(50)" json:"requestedOffCampusRoomNumber,omitempty"`
	RequestedOffCampusArea       string `gorm:"column:requested_off_campus_area;type:varchar(100)" json:"requestedOffCampusArea,omitempty"`

	Note   string        `gorm:"type:text" json:"note,omitempty"`
	Status BookingStatus `gorm:"type:varchar(20);index" json:"status"`

	RequestedAt  time.Time  `gorm:"column:requested_at" json:"requestedAt"`
	ApprovedBy   *uint      `gorm:"column:approved_by" json:"approvedBy,omitempty"`
	ApprovedAt   *time.Time `gorm:"column:approved_at" json:"approvedAt,omitempty"`
	DecisionNote string     `gorm:"column:decision_note;type:text" json:"decisionNote,omitempty"`

	Student       Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	RequestedRoom *Room   `gorm:"foreignKey:RequestedRoomID" json:"requestedRoom,omitempty"`
}

// OnCampusTarget reports whether the request targets an on-campus room.
func (b *BookingRequest) OnCampusTarget() bool {
	return b.RequestedRoomID != nil
}
