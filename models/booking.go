package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingSeated    BookingStatus = "seated"
	BookingNoShow    BookingStatus = "no_show"
	BookingCancelled BookingStatus = "cancelled"
)

var BookingStatuses = []BookingStatus{
	BookingPending, BookingConfirmed, BookingSeated, BookingNoShow, BookingCancelled,
}

func (s BookingStatus) Valid() bool {
	for _, v := range BookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Booking struct {
	ID           string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	CustomerName string        `gorm:"type:varchar(255);not null" json:"customer_name" validate:"required"`
	PhoneNumber  string        `gorm:"type:varchar(50);not null" json:"phone_number" validate:"required"`
	BookingDate  string        `gorm:"type:varchar(10);not null;index" json:"booking_date" validate:"required,datetime=2006-01-02"`
	BookingTime  string        `gorm:"type:varchar(5);not null" json:"booking_time" validate:"required,datetime=15:04"`
	PartySize    int           `gorm:"not null" json:"party_size" validate:"min=1,max=20"`
	Status       BookingStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status" validate:"oneof=pending confirmed seated no_show cancelled"`
	Notes        *string       `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	assignID(&b.ID)
	if b.Status == "" {
		b.Status = BookingPending
	}
	return nil
}

func (b *Booking) AfterCreate(tx *gorm.DB) error {
	return journal(tx, "bookings", b.ID, ActionInsert)
}

func (b *Booking) AfterUpdate(tx *gorm.DB) error {
	return journal(tx, "bookings", b.ID, ActionUpdate)
}

func (b *Booking) AfterDelete(tx *gorm.DB) error {
	return journal(tx, "bookings", b.ID, ActionDelete)
}

// Key and Version let the live board merge bookings by identity and server time.
func (b Booking) Key() string        { return b.ID }
func (b Booking) Version() time.Time { return b.UpdatedAt }
