package models

import (
	"time"
)

type ResidenceKind string

const (
	ResidenceOnCampus  ResidenceKind = "on-campus"
	ResidenceOffCampus ResidenceKind = "off-campus"
)

// Residence is the current housing assignment of one student. The unique index
// on student_id is the storage-level guarantee that a student never holds two
// assignments; a transfer rewrites this record in place, the id is stable.
type Residence struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// No soft delete here: vacating must actually free the student_id slot so
	// the unique index keeps enforcing one residence per student on MySQL.
	StudentID uint          `gorm:"column:student_id;uniqueIndex:idx_residence_student" json:"studentId"`
	Kind      ResidenceKind `gorm:"type:varchar(20)" json:"kind"`

	// On-campus fields; null for off-campus records.
	HostelID *uint  `gorm:"column:hostel_id" json:"hostelId,omitempty"`
	RoomID   *uint  `gorm:"column:room_id;index" json:"roomId,omitempty"`
	BedLabel string `gorm:"column:bed_label;type:varchar(20)" json:"bedLabel,omitempty"`

	// Off-campus fields; empty for on-campus records.
	OffCampusHostelName string `gorm:"column:off_campus_hostel_name;type:varchar(100)" json:"offCampusHostelName,omitempty"`
	OffCampusRoomNumber string `gorm:"column:off_campus_room_number;type:varchar(50)" json:"offCampusRoomNumber,omitempty"`
	OffCampusArea       string `gorm:"column:off_campus_area;type:varchar(100)" json:"offCampusArea,omitempty"`

	AllocatedAt time.Time `gorm:"column:allocated_at" json:"allocatedAt"`

	Hostel *Hostel `gorm:"foreignKey:HostelID" json:"hostel,omitempty"`
	Room   *Room   `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}
