package models

import (
	"time"

	"gorm.io/gorm"
)

type Message struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SenderID   string    `gorm:"type:varchar(36);not null;index:idx_message_pair" json:"sender_id" validate:"required"`
	ReceiverID string    `gorm:"type:varchar(36);not null;index:idx_message_pair;index" json:"receiver_id" validate:"required"`
	Content    string    `gorm:"type:text;not null" json:"content" validate:"required"`
	IsRead     bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	return nil
}

// Only inserts are relayed for messages; read flags are pulled with the thread.
func (m *Message) AfterCreate(tx *gorm.DB) error {
	return journal(tx, "messages", m.ID, ActionInsert)
}

func (m Message) Key() string        { return m.ID }
func (m Message) Version() time.Time { return m.UpdatedAt }
