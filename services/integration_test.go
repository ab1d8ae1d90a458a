package services

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"dorm-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Integration tests run against a real MySQL database and are skipped unless
// DORM_TEST_MYSQL_DSN points at a dedicated, disposable schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("DORM_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("DORM_TEST_MYSQL_DSN not set; skipping MySQL integration test")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Staff{},
		&models.Student{},
		&models.Hostel{},
		&models.Room{},
		&models.Residence{},
		&models.BookingRequest{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	for _, table := range []string{"residences", "booking_requests", "rooms", "hostels", "students", "staffs"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to clear table %s: %v", table, err)
		}
	}
	return db
}

type testEnv struct {
	db         *gorm.DB
	rooms      *RoomService
	residences *ResidenceService
	bookings   *BookingService
}

func newTestEnv(t *testing.T) *testEnv {
	db := newTestDB(t)
	rooms := NewRoomService(db)
	residences := NewResidenceService(db, rooms)
	students := NewStudentDirectory(db)
	staff := NewStaffDirectory(db)
	return &testEnv{
		db:         db,
		rooms:      rooms,
		residences: residences,
		bookings:   NewBookingService(db, students, staff, residences),
	}
}

func (e *testEnv) createHostel(t *testing.T, name string, gender models.Gender) models.Hostel {
	t.Helper()
	hostel := models.Hostel{Name: name, GenderRestriction: gender}
	if err := e.db.Create(&hostel).Error; err != nil {
		t.Fatalf("failed to create hostel: %v", err)
	}
	return hostel
}

func (e *testEnv) createRoom(t *testing.T, hostelID uint, number string, capacity int) models.Room {
	t.Helper()
	room := models.Room{
		HostelID:   hostelID,
		RoomNumber: number,
		Capacity:   capacity,
		Status:     models.RoomStatusAvailable,
	}
	if err := e.db.Create(&room).Error; err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	return room
}

func (e *testEnv) createStudent(t *testing.T, number string, gender models.Gender) models.Student {
	t.Helper()
	student := models.Student{StudentNumber: number, FullName: "Student " + number, Gender: gender}
	if err := e.db.Create(&student).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}
	return student
}

func (e *testEnv) createStaff(t *testing.T) models.Staff {
	t.Helper()
	staff := models.Staff{FullName: "Approver", Email: "approver@campus.local", Role: "warden"}
	if err := e.db.Create(&staff).Error; err != nil {
		t.Fatalf("failed to create staff: %v", err)
	}
	return staff
}

func (e *testEnv) roomOccupancy(t *testing.T, roomID uint) (int, models.RoomStatus) {
	t.Helper()
	var room models.Room
	if err := e.db.First(&room, roomID).Error; err != nil {
		t.Fatalf("failed to reload room: %v", err)
	}
	return room.CurrentOccupancy, room.Status
}

func TestAllocateFillsRoomToCapacity(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t, "New Men Dorm", models.GenderMale)
	room := env.createRoom(t, hostel.ID, "R1", 2)

	a := env.createStudent(t, "A-1", models.GenderMale)
	b := env.createStudent(t, "A-2", models.GenderMale)
	c := env.createStudent(t, "A-3", models.GenderMale)

	resA, err := env.residences.AllocateOnCampus(a.ID, room.ID, "Bed A")
	if err != nil {
		t.Fatalf("allocate A: %v", err)
	}
	if resA.BedLabel != "Bed A" {
		t.Errorf("bed label = %q, want Bed A", resA.BedLabel)
	}
	if occ, status := env.roomOccupancy(t, room.ID); occ != 1 || status != models.RoomStatusAvailable {
		t.Errorf("after A: occupancy=%d status=%s, want 1/available", occ, status)
	}

	if _, err := env.residences.AllocateOnCampus(b.ID, room.ID, "Bed B"); err != nil {
		t.Fatalf("allocate B: %v", err)
	}
	if occ, status := env.roomOccupancy(t, room.ID); occ != 2 || status != models.RoomStatusFull {
		t.Errorf("after B: occupancy=%d status=%s, want 2/full", occ, status)
	}

	if _, err := env.residences.AllocateOnCampus(c.ID, room.ID, ""); !errors.Is(err, ErrRoomFull) {
		t.Errorf("allocate C into full room: got %v, want ErrRoomFull", err)
	}
	if occ, _ := env.roomOccupancy(t, room.ID); occ != 2 {
		t.Errorf("failed allocation must not change occupancy, got %d", occ)
	}
}

func TestAllocateGenderMismatch(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t, "New Men Dorm", models.GenderMale)
	room := env.createRoom(t, hostel.ID, "R1", 2)
	d := env.createStudent(t, "D-1", models.GenderFemale)

	if _, err := env.residences.AllocateOnCampus(d.ID, room.ID, ""); !errors.Is(err, ErrGenderMismatch) {
		t.Fatalf("got %v, want ErrGenderMismatch", err)
	}
	if occ, _ := env.roomOccupancy(t, room.ID); occ != 0 {
		t.Errorf("occupancy changed on rejected allocation: %d", occ)
	}
}

func TestAllocateAlreadyResident(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t, "New Men Dorm", models.GenderMale)
	room := env.createRoom(t, hostel.ID, "R1", 2)
	a := env.createStudent(t, "A-1", models.GenderMale)

	if _, err := env.residences.AllocateOnCampus(a.ID, room.ID, ""); err != nil {
		t.Fatalf("first allocate: %v", err)
	}
	if _, err := env.residences.AllocateOnCampus(a.ID, room.ID, ""); !errors.Is(err, ErrAlreadyResident) {
		t.Errorf("got %v, want ErrAlreadyResident", err)
	}
	if _, err := env.residences.AllocateOffCampus(a.ID, "Blue House", "12", "Kazanchis"); !errors.Is(err, ErrAlreadyResident) {
		t.Errorf("off-campus for resident student: got %v, want ErrAlreadyResident", err)
	}
}

func TestAutoBedLabels(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t, "New Men Dorm", models.GenderMale)
	room := env.createRoom(t, hostel.ID, "R1", 3)

	labels := make(map[string]bool)
	for i := 0; i < 3; i++ {
		s := env.createStudent(t, fmt.Sprintf("B-%d", i), models.GenderMale)
		res, err := env.residences.AllocateOnCampus(s.ID, room.ID, "")
		if err != nil {
			t.Fatalf("allocate %d: %v", i, err)
		}
		labels[res.BedLabel] = true
	}
	for _, want := range []string{"Bed A", "Bed B", "Bed C"} {
		if !labels[want] {
			t.Errorf("expected auto-assigned label %q, got %v", want, labels)
		}
	}
}

func TestDuplicateBedLabelRejected(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t, "New Men Dorm", models.GenderMale)
	room := env.createRoom(t, hostel.ID, "R1", 2)
	a := env.createStudent(t, "A-1", models.GenderMale)
	b := env.createStudent(t, "A-2", models.GenderMale)

	if _, err := env.residences.AllocateOnCampus(a.ID, room.ID, "Bed A"); err != nil {
		t.Fatalf("allocate A: %v", err)
	}
	if _, err := env.residences.AllocateOnCampus(b.ID, room.ID, "bed a"); !errors.Is(err, ErrValidation) {
		t.Errorf("duplicate bed label: got %v, want ErrValidation", err)
	}
}

func TestMaintenanceBlocksAllocation(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t, "New Men Dorm", models.GenderMale)
	room := env.createRoom(t, hostel.ID, "R1", 2)
	a := env.createStudent(t, "A-1", models.GenderMale)

	if _, err := env.rooms.SetMaintenance(room.ID, true); err != nil {
		t.Fatalf("set maintenance: %v", err)
	}
	if _, err := env.residences.AllocateOnCampus(a.ID, room.ID, ""); !errors.Is(err, ErrRoomFull) {
		t.Errorf("allocation into maintenance room: got %v, want ErrRoomFull", err)
	}

	if _, err := env.rooms.SetMaintenance(room.ID, false); err != nil {
		t.Fatalf("clear maintenance: %v", err)
	}
	if _, err := env.residences.AllocateOnCampus(a.ID, room.ID, ""); err != nil {
		t.Errorf("allocation after clearing maintenance: %v", err)
	}
}

func TestVacateReleasesBed(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t, "New Men Dorm", models.GenderMale)
	room := env.createRoom(t, hostel.ID, "R1", 1)
	a := env.createStudent(t, "A-1", models.GenderMale)

	if _, err := env.residences.AllocateOnCampus(a.ID, room.ID, ""); err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if occ, status := env.roomOccupancy(t, room.ID); occ != 1 || status != models.RoomStatusFull {
		t.Fatalf("after allocate: occupancy=%d status=%s", occ, status)
	}

	if err := env.residences.Vacate(a.ID); err != nil {
		t.Fatalf("vacate: %v", err)
	}
	if occ, status := env.roomOccupancy(t, room.ID); occ != 0 || status != models.RoomStatusAvailable {
		t.Errorf("after vacate: occupancy=%d status=%s, want 0/available", occ, status)
	}

	if err := env.residences.Vacate(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second vacate: got %v, want ErrNotFound", err)
	}
}

func TestTransferApprovalMovesStudent(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t, "New Men Dorm", models.GenderMale)
	r1 := env.createRoom(t, hostel.ID, "R1", 2)
	r2 := env.createRoom(t, hostel.ID, "R2", 1)
	a := env.createStudent(t, "A-1", models.GenderMale)
	approver := env.createStaff(t)

	if _, err := env.residences.AllocateOnCampus(a.ID, r1.ID, "Bed A"); err != nil {
		t.Fatalf("allocate: %v", err)
	}

	booking, err := env.bookings.Submit(SubmitBookingInput{
		StudentIdentifier: a.StudentNumber,
		RequestType:       "transfer",
		RequestedRoomID:   r2.ID,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if booking.Status != models.BookingStatusPending {
		t.Fatalf("new booking status = %s, want pending", booking.Status)
	}
	if booking.CurrentRoomID == nil || *booking.CurrentRoomID != r1.ID {
		t.Errorf("currentRoomId snapshot = %v, want %d", booking.CurrentRoomID, r1.ID)
	}

	decided, err := env.bookings.Decide(booking.ID, models.BookingStatusApproved, approver.ID, "ok")
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decided.Status != models.BookingStatusApproved {
		t.Errorf("decided status = %s", decided.Status)
	}

	if occ, _ := env.roomOccupancy(t, r1.ID); occ != 0 {
		t.Errorf("old room occupancy = %d, want 0", occ)
	}
	if occ, _ := env.roomOccupancy(t, r2.ID); occ != 1 {
		t.Errorf("new room occupancy = %d, want 1", occ)
	}

	res, err := env.residences.GetByStudent(a.ID)
	if err != nil {
		t.Fatalf("get residence: %v", err)
	}
	if res.RoomID == nil || *res.RoomID != r2.ID {
		t.Errorf("residence room = %v, want %d", res.RoomID, r2.ID)
	}
}

func TestTransferToFullRoomFailsAtomically(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t, "New Men Dorm", models.GenderMale)
	r1 := env.createRoom(t, hostel.ID, "R1", 2)
	r3 := env.createRoom(t, hostel.ID, "R3", 1)
	a := env.createStudent(t, "A-1", models.GenderMale)
	other := env.createStudent(t, "A-2", models.GenderMale)
	approver := env.createStaff(t)

	if _, err := env.residences.AllocateOnCampus(a.ID, r1.ID, ""); err != nil {
		t.Fatalf("allocate A: %v", err)
	}
	if _, err := env.residences.AllocateOnCampus(other.ID, r3.ID, ""); err != nil {
		t.Fatalf("fill R3: %v", err)
	}

	booking, err := env.bookings.Submit(SubmitBookingInput{
		StudentIdentifier: a.StudentNumber,
		RequestType:       "transfer",
		RequestedRoomID:   r3.ID,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := env.bookings.Decide(booking.ID, models.BookingStatusApproved, approver.ID, ""); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("approve into full room: got %v, want ErrRoomFull", err)
	}

	// The failed approval must leave everything as it was: the old room's
	// occupancy intact, the residence unmoved, the request still pending.
	if occ, _ := env.roomOccupancy(t, r1.ID); occ != 1 {
		t.Errorf("old room occupancy = %d, want 1", occ)
	}
	if occ, _ := env.roomOccupancy(t, r3.ID); occ != 1 {
		t.Errorf("target room occupancy = %d, want 1", occ)
	}
	res, err := env.residences.GetByStudent(a.ID)
	if err != nil {
		t.Fatalf("get residence: %v", err)
	}
	if res.RoomID == nil || *res.RoomID != r1.ID {
		t.Errorf("residence moved despite failed approval: %v", res.RoomID)
	}
	reloaded, err := env.bookings.Get(fmt.Sprint(booking.ID))
	if err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if reloaded.Status != models.BookingStatusPending {
		t.Errorf("booking status = %s, want pending after failed approval", reloaded.Status)
	}
}

func TestDecideTwice(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t, "New Men Dorm", models.GenderMale)
	room := env.createRoom(t, hostel.ID, "R1", 2)
	a := env.createStudent(t, "A-1", models.GenderMale)
	approver := env.createStaff(t)

	booking, err := env.bookings.Submit(SubmitBookingInput{
		StudentIdentifier: a.StudentNumber,
		RequestType:       "new",
		RequestedRoomID:   room.ID,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := env.bookings.Decide(booking.ID, models.BookingStatusApproved, approver.ID, ""); err != nil {
		t.Fatalf("first decide: %v", err)
	}
	if _, err := env.bookings.Decide(booking.ID, models.BookingStatusRejected, approver.ID, ""); !errors.Is(err, ErrAlreadyDecided) {
		t.Errorf("second decide: got %v, want ErrAlreadyDecided", err)
	}

	// Side effects of the first decision are not duplicated.
	if occ, _ := env.roomOccupancy(t, room.ID); occ != 1 {
		t.Errorf("occupancy = %d, want 1", occ)
	}
}

func TestRejectHasNoSideEffects(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t, "New Men Dorm", models.GenderMale)
	room := env.createRoom(t, hostel.ID, "R1", 2)
	a := env.createStudent(t, "A-1", models.GenderMale)
	approver := env.createStaff(t)

	booking, err := env.bookings.Submit(SubmitBookingInput{
		StudentIdentifier: a.StudentNumber,
		RequestType:       "new",
		RequestedRoomID:   room.ID,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := env.bookings.Decide(booking.ID, models.BookingStatusRejected, approver.ID, "no space policy"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if occ, _ := env.roomOccupancy(t, room.ID); occ != 0 {
		t.Errorf("rejection changed occupancy: %d", occ)
	}
	if _, err := env.residences.GetByStudent(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("rejection created a residence: %v", err)
	}
}

func TestApprovalMovesOffCampus(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t, "New Men Dorm", models.GenderMale)
	room := env.createRoom(t, hostel.ID, "R1", 2)
	a := env.createStudent(t, "A-1", models.GenderMale)
	approver := env.createStaff(t)

	if _, err := env.residences.AllocateOnCampus(a.ID, room.ID, ""); err != nil {
		t.Fatalf("allocate: %v", err)
	}

	booking, err := env.bookings.Submit(SubmitBookingInput{
		StudentIdentifier:   a.StudentNumber,
		RequestType:         "transfer",
		OffCampusHostelName: "Blue House",
		OffCampusRoomNumber: "12",
		OffCampusArea:       "Kazanchis",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.bookings.Decide(booking.ID, models.BookingStatusApproved, approver.ID, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if occ, _ := env.roomOccupancy(t, room.ID); occ != 0 {
		t.Errorf("old room occupancy = %d, want 0", occ)
	}
	res, err := env.residences.GetByStudent(a.ID)
	if err != nil {
		t.Fatalf("get residence: %v", err)
	}
	if res.Kind != models.ResidenceOffCampus || res.OffCampusHostelName != "Blue House" {
		t.Errorf("residence = %+v, want off-campus Blue House", res)
	}
	if res.RoomID != nil || res.HostelID != nil || res.BedLabel != "" {
		t.Errorf("on-campus fields not cleared: %+v", res)
	}
}

// N concurrent allocations against a room with capacity C must yield exactly
// C successes and N-C RoomFull failures, with the counter landing on C.
func TestConcurrentAllocationsRespectCapacity(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t, "New Men Dorm", models.GenderMale)
	const capacity = 2
	const candidates = 8
	room := env.createRoom(t, hostel.ID, "R1", capacity)

	students := make([]models.Student, candidates)
	for i := range students {
		students[i] = env.createStudent(t, fmt.Sprintf("C-%d", i), models.GenderMale)
	}

	var wg sync.WaitGroup
	errs := make([]error, candidates)
	for i := range students {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.residences.AllocateOnCampus(students[i].ID, room.ID, "")
		}(i)
	}
	wg.Wait()

	var successes, full int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrRoomFull):
			full++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != capacity {
		t.Errorf("successes = %d, want %d", successes, capacity)
	}
	if full != candidates-capacity {
		t.Errorf("RoomFull failures = %d, want %d", full, candidates-capacity)
	}

	if occ, status := env.roomOccupancy(t, room.ID); occ != capacity || status != models.RoomStatusFull {
		t.Errorf("final occupancy=%d status=%s, want %d/full", occ, status, capacity)
	}

	var residenceCount int64
	env.db.Model(&models.Residence{}).Where("room_id = ?", room.ID).Count(&residenceCount)
	if residenceCount != capacity {
		t.Errorf("residence count = %d, want %d", residenceCount, capacity)
	}
}
