package models

import (
	"time"

	"gorm.io/gorm"
)

type Review struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Rating       int       `gorm:"not null" json:"rating" validate:"min=1,max=5"`
	Comment      string    `gorm:"type:text" json:"comment"`
	CustomerName *string   `gorm:"type:varchar(255)" json:"customer_name"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}
