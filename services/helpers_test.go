package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/yeremiapane/restaurant-booking/database"
	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedRole(t *testing.T, db *gorm.DB, id, role, name string, rate *float64) models.UserRole {
	t.Helper()
	db.Create(&models.User{ID: id, Email: id + "@example.com", Password: "x"})
	r := models.UserRole{UserID: id, Role: role, FullName: name, HourlyRate: rate}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("seed role: %v", err)
	}
	return r
}

func rate(v float64) *float64 { return &v }

func clock(h, m int) time.Time {
	// Wednesday of a fixed week
	return time.Date(2024, 6, 5, h, m, 0, 0, time.UTC)
}

var bg = context.Background()
