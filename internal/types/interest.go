package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	InterestKindPredefined = "predefined"
	InterestKindCustom     = "custom"
)

type Interest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Kind      string    `gorm:"not null;default:custom;column:kind" json:"kind"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Interest) TableName() string {
	return "interest"
}

type UserInterest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_interest;column:user_id" json:"user_id"`
	InterestID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_interest;column:interest_id" json:"interest_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (UserInterest) TableName() string {
	return "user_interest"
}
