package models

import (
	"gorm.io/gorm"
)

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusFull        RoomStatus = "full"
	RoomStatusMaintenance RoomStatus = "maintenance"
)

// DeriveRoomStatus recomputes a room's status from its occupancy. The
// maintenance override is manual and survives occupancy changes; it is only
// cleared by an explicit maintenance toggle.
func DeriveRoomStatus(current RoomStatus, occupancy, capacity int) RoomStatus {
	if current == RoomStatusMaintenance {
		return RoomStatusMaintenance
	}
	if occupancy >= capacity {
		return RoomStatusFull
	}
	return RoomStatusAvailable
}

type Room struct {
	gorm.Model

	HostelID   uint   `json:"hostelId" gorm:"column:hostel_id;not null;uniqueIndex:idx_hostel_room_number"`
	RoomNumber string `json:"roomNumber" gorm:"column:room_number;type:varchar(50);uniqueIndex:idx_hostel_room_number"`
	Floor      string `json:"floor" gorm:"type:varchar(10)"`
	RoomType   string `json:"roomType" gorm:"column:room_type;type:varchar(50)"`

	Capacity int `json:"capacity"`
	// Cached count of on-campus residences pointing at this room. Every write
	// goes through RoomService.AdjustOccupancy; call sites never touch it.
	CurrentOccupancy int `json:"currentOccupancy" gorm:"column:current_occupancy;default:0"`

	Status RoomStatus `json:"status" gorm:"type:varchar(20)"`

	Hostel Hostel `json:"hostel,omitempty" gorm:"foreignKey:HostelID"`
}
