package types

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID    uuid.UUID  `gorm:"type:uuid;not null;index;column:sender_id" json:"sender_id"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index;column:recipient_id" json:"recipient_id"`
	Body        string     `gorm:"type:text;not null;column:body" json:"body"`
	ReadAt      *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
}

func (Message) TableName() string {
	return "message"
}
