package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// journal records a change for the change monitor inside the caller's transaction.
func journal(tx *gorm.DB, table, recordID, action string) error {
	if recordID == "" {
		return nil
	}
	return tx.Create(&DBChange{
		TableName:  table,
		RecordID:   recordID,
		ActionType: action,
	}).Error
}
