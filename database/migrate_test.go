package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func TestMigrateCreatesTablesAndPrunesJournal(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)

	assert.NoError(t, Migrate(db))
	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m))
	}

	db.Create(&models.DBChange{TableName: "bookings", RecordID: "a", ActionType: models.ActionInsert, Processed: true})
	db.Create(&models.DBChange{TableName: "bookings", RecordID: "b", ActionType: models.ActionInsert})

	assert.NoError(t, Migrate(db))

	var left []models.DBChange
	db.Find(&left)
	assert.Len(t, left, 1)
	assert.Equal(t, "b", left[0].RecordID)
}
