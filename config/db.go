package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"dorm-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

// ResolveMySQLDSN builds a DSN from MYSQL_URL/DATABASE_URL (mysql:// URLs are
// parsed and normalized) or from the discrete DB_* variables.
func ResolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "dorm_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase is idempotent: every block checks before inserting so restarts
// never duplicate baseline data.
func SeedDatabase() {
	// ---------------- Staff ----------------
	var staffCount int64
	DB.Model(&models.Staff{}).Count(&staffCount)
	if staffCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("warden123"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default warden password: %v", err)
		} else {
			warden := models.Staff{
				FullName:     "Default Warden",
				Email:        "warden@campus.local",
				Role:         "warden",
				PasswordHash: string(hash),
			}
			if err := DB.Create(&warden).Error; err != nil {
				log.Printf("warning: failed to create default warden: %v", err)
			} else {
				log.Println("Default warden seeded")
			}
		}
	}

	// ---------------- Hostels + Rooms ----------------
	var hostelCount int64
	DB.Model(&models.Hostel{}).Count(&hostelCount)
	if hostelCount == 0 {
		var warden models.Staff
		var wardenID *uint
		if err := DB.First(&warden).Error; err == nil {
			wardenID = &warden.ID
		}

		hostels := []models.Hostel{
			{Name: "New Men Dorm", GenderRestriction: models.GenderMale, TotalRoomCount: 40, Location: "North Campus", WardenID: wardenID},
			{Name: "New Ladies Dorm", GenderRestriction: models.GenderFemale, TotalRoomCount: 40, Location: "South Campus", WardenID: wardenID},
		}
		if err := DB.Create(&hostels).Error; err != nil {
			log.Printf("warning: failed to seed hostels: %v", err)
		} else {
			log.Println("Hostels seeded")
			for _, h := range hostels {
				rooms := []models.Room{
					{HostelID: h.ID, RoomNumber: "101", Floor: "1", Capacity: 2, RoomType: "double", Status: models.RoomStatusAvailable},
					{HostelID: h.ID, RoomNumber: "102", Floor: "1", Capacity: 2, RoomType: "double", Status: models.RoomStatusAvailable},
					{HostelID: h.ID, RoomNumber: "201", Floor: "2", Capacity: 4, RoomType: "quad", Status: models.RoomStatusAvailable},
				}
				if err := DB.Create(&rooms).Error; err != nil {
					log.Printf("warning: failed to seed rooms for %s: %v", h.Name, err)
				}
			}
		}
	}

	// ---------------- Students ----------------
	var studentCount int64
	DB.Model(&models.Student{}).Count(&studentCount)
	if studentCount == 0 {
		students := []models.Student{
			{StudentNumber: "S-1001", FullName: "Abel Mengistu", Gender: models.GenderMale, Email: "abel@campus.local"},
			{StudentNumber: "S-1002", FullName: "Biruk Tadesse", Gender: models.GenderMale, Email: "biruk@campus.local"},
			{StudentNumber: "S-1003", FullName: "Chaltu Bekele", Gender: models.GenderFemale, Email: "chaltu@campus.local"},
		}
		if err := DB.Create(&students).Error; err != nil {
			log.Printf("warning: failed to seed students: %v", err)
		} else {
			log.Println("Students seeded")
		}
	}

	// ---------------- Campus settings ----------------
	var settingsCount int64
	DB.Model(&models.CampusSetting{}).Count(&settingsCount)
	if settingsCount == 0 {
		settings := models.CampusSetting{
			OfficeName:    "Housing Office",
			ContactEmail:  "housing@campus.local",
			BookingNotice: "Transfer requests are reviewed within three working days.",
		}
		if err := DB.Create(&settings).Error; err != nil {
			log.Printf("warning: failed to seed campus settings: %v", err)
		}
	}
}

func ConnectDatabase() error {
	dsn, err := ResolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Info,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// AutoMigrate in parent->child order.
	if err := DB.AutoMigrate(
		&models.Staff{},
		&models.Student{},
		&models.CampusSetting{},
		&models.Hostel{},
		&models.Room{},
		&models.Residence{},
		&models.BookingRequest{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
