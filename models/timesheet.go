package models

import (
	"time"

	"gorm.io/gorm"
)

type Timesheet struct {
	ID         string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string     `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ClockIn    time.Time  `gorm:"not null;index" json:"clock_in"`
	ClockOut   *time.Time `json:"clock_out"`
	IsManual   bool       `gorm:"not null;default:false" json:"is_manual"`
	AdminNotes *string    `gorm:"type:text" json:"admin_notes"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (t *Timesheet) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}

func (t Timesheet) IsOpen() bool { return t.ClockOut == nil }
