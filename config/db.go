package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"hostel-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
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

func resolveMySQLDSN() (string, error) {
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
	dbName := envOrDefault("DB_NAME", "hostel_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedDemoData inserts a demo hostel with a couple of room
// configurations on an empty database. Gated behind SEED_DEMO=true.
func SeedDemoData() {
	var hostelCount int64
	DB.Model(&models.Hostel{}).Count(&hostelCount)
	if hostelCount > 0 {
		return
	}

	hostel := models.Hostel{
		OwnerID: 1,
		Name:    "Sunrise Student Hostel",
		City:    "Hyderabad",
		Address: "12 College Road",
	}
	if err := DB.Create(&hostel).Error; err != nil {
		log.Printf("warning: failed to seed demo hostel: %v", err)
		return
	}

	rooms := []models.Room{
		{HostelID: hostel.ID, TypeName: "2-sharing", Price: 6500, Capacity: 2, TotalUnits: 10, Available: 10},
		{HostelID: hostel.ID, TypeName: "4-sharing", Price: 4000, Capacity: 4, TotalUnits: 6, Available: 6},
	}
	if err := DB.Create(&rooms).Error; err != nil {
		log.Printf("warning: failed to seed demo rooms: %v", err)
		return
	}
	log.Println("Demo hostel and rooms seeded")
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
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
		&models.Hostel{},
		&models.Student{},
		&models.Room{},
		&models.Booking{},
	); err != nil {
		return err
	}

	if strings.EqualFold(envOrDefault("SEED_DEMO", "false"), "true") {
		SeedDemoData()
	}
	return nil
}
