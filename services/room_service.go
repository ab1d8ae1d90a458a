package services

import (
	"errors"
	"fmt"
	"strings"

	"dorm-backend/models"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomService is the room directory: queries plus the single occupancy
// mutation primitive every allocation path funnels through.
type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

// RoomFilter narrows List results; zero values mean "no filter".
type RoomFilter struct {
	HostelID uint
	Status   models.RoomStatus
	Floor    string
}

func (s *RoomService) List(filter RoomFilter) ([]models.Room, error) {
	q := s.DB.Model(&models.Room{})
	if filter.HostelID != 0 {
		q = q.Where("hostel_id = ?", filter.HostelID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Floor != "" {
		q = q.Where("floor = ?", filter.Floor)
	}

	var rooms []models.Room
	if err := q.Preload("Hostel").Order("hostel_id ASC, room_number ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) GetByID(id uint) (models.Room, error) {
	var room models.Room
	if err := s.DB.Preload("Hostel").First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return room, fmt.Errorf("%w: room %d", ErrNotFound, id)
		}
		return room, fmt.Errorf("failed to retrieve room: %w", err)
	}
	return room, nil
}

func (s *RoomService) Create(room *models.Room) error {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return fmt.Errorf("%w: room number is required", ErrValidation)
	}
	if room.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1", ErrValidation)
	}

	var hostel models.Hostel
	if err := s.DB.First(&hostel, room.HostelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: hostel %d", ErrNotFound, room.HostelID)
		}
		return fmt.Errorf("failed to check hostel %d: %w", room.HostelID, err)
	}

	room.CurrentOccupancy = 0
	room.Status = models.RoomStatusAvailable

	if err := s.DB.Create(room).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: room '%s' already exists in hostel %d", ErrValidation, room.RoomNumber, room.HostelID)
		}
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// SetMaintenance toggles the manual maintenance override. Turning it off
// recomputes the status from the cached occupancy.
func (s *RoomService) SetMaintenance(id uint, on bool) (models.Room, error) {
	var room models.Room
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: room %d", ErrNotFound, id)
			}
			return err
		}

		var status models.RoomStatus
		if on {
			status = models.RoomStatusMaintenance
		} else {
			status = models.DeriveRoomStatus(models.RoomStatusAvailable, room.CurrentOccupancy, room.Capacity)
		}

		if err := tx.Model(&room).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update room status: %w", err)
		}
		room.Status = status
		return nil
	})
	return room, err
}

// LockRoom reads a room row FOR UPDATE inside tx. Callers touching two rooms
// must lock them in ascending id order to keep a global lock order.
func (s *RoomService) LockRoom(tx *gorm.DB, id uint) (models.Room, error) {
	var room models.Room
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return room, fmt.Errorf("%w: room %d", ErrNotFound, id)
		}
		return room, fmt.Errorf("failed to lock room %d: %w", id, err)
	}
	return room, nil
}

// AdjustOccupancy applies delta to a room's cached occupancy inside tx. The
// UPDATE carries the bounds check in its WHERE clause so an out-of-range
// result can never be written even if the caller's earlier read went stale.
// Status is recomputed unless the room is under the maintenance override.
//
// This is the only place current_occupancy is written. Call sites must hold
// the row lock (LockRoom) for the whole check-and-adjust critical section.
func (s *RoomService) AdjustOccupancy(tx *gorm.DB, roomID uint, delta int) error {
	if delta == 0 {
		return nil
	}

	// MySQL applies SET assignments left to right against current values, so
	// status must be computed before current_occupancy is reassigned.
	res := tx.Exec(`
UPDATE rooms
SET status = CASE
        WHEN status = ? THEN status
        WHEN current_occupancy + ? >= capacity THEN ?
        ELSE ?
    END,
    current_occupancy = current_occupancy + ?,
    updated_at = NOW()
WHERE id = ?
  AND deleted_at IS NULL
  AND current_occupancy + ? >= 0
  AND current_occupancy + ? <= capacity`,
		models.RoomStatusMaintenance, delta, models.RoomStatusFull, models.RoomStatusAvailable,
		delta,
		roomID,
		delta, delta,
	)
	if res.Error != nil {
		return fmt.Errorf("failed to adjust occupancy for room %d: %w", roomID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the room vanished or the bounds guard refused the write.
		var room models.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: room %d", ErrNotFound, roomID)
			}
			return fmt.Errorf("failed to re-read room %d: %w", roomID, err)
		}
		if delta > 0 {
			return fmt.Errorf("%w: room %d is at capacity", ErrRoomFull, roomID)
		}
		return fmt.Errorf("%w: occupancy adjustment for room %d lost a race", ErrConcurrentConflict, roomID)
	}
	return nil
}

// isDuplicateKey detects MySQL error 1062 (duplicate entry) with a string
// fallback for errors that did not come through the driver.
func isDuplicateKey(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}
