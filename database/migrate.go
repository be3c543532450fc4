package database

import (
	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/utils"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserRole{},
		&models.Booking{},
		&models.MenuItem{},
		&models.Review{},
		&models.Timesheet{},
		&models.Message{},
		&models.DBChange{},
	}
}

// Migrate creates or updates the schema. Change capture is done by model
// hooks, so no database triggers are installed.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	if err := dropProcessedChanges(db); err != nil {
		utils.ErrorLogger.Printf("Error pruning processed changes: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// Processed journal rows are only useful until the monitor has relayed them.
func dropProcessedChanges(db *gorm.DB) error {
	return db.Where("processed = ?", true).Delete(&models.DBChange{}).Error
}
