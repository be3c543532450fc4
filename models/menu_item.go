package models

import (
	"time"

	"gorm.io/gorm"
)

type MenuItem struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price" validate:"gte=0"`
	Category    string    `gorm:"type:varchar(50);not null;index" json:"category" validate:"required"`
	ImageURL    *string   `gorm:"type:varchar(512)" json:"image_url"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	return nil
}
