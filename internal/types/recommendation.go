package types

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation rows are owned by the regeneration run for UserID: a run
// deletes the whole set and inserts the new one in a single transaction.
// They are never updated in place.
type Recommendation struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rec_pair;index;column:user_id" json:"user_id"`
	RecommendedUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rec_pair;column:recommended_user_id" json:"recommended_user_id"`
	Score             float64   `gorm:"not null;column:score" json:"score"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
}

func (Recommendation) TableName() string {
	return "recommendation"
}
