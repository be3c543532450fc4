package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the authentication identity. Profile and role live in UserRole.
type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

type UserRole struct {
	UserID      string    `gorm:"type:varchar(36);primaryKey" json:"user_id" validate:"required"`
	Role        string    `gorm:"type:varchar(20);not null;index" json:"role" validate:"oneof=owner staff"`
	FullName    string    `gorm:"type:varchar(255);not null" json:"full_name" validate:"required"`
	PhoneNumber *string   `gorm:"type:varchar(50)" json:"phone_number"`
	HourlyRate  *float64  `gorm:"type:decimal(10,2)" json:"hourly_rate" validate:"omitempty,gte=0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Rate is the hourly rate, zero when unset.
func (r UserRole) Rate() float64 {
	if r.HourlyRate == nil {
		return 0
	}
	return *r.HourlyRate
}
