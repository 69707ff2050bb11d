package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	PostCategoryProject = "PROJECT"
	PostCategoryStudy   = "STUDY"
	PostCategoryClub    = "CLUB"
	PostCategoryContest = "CONTEST"
	PostCategoryFree    = "FREE"
)

const (
	PostStatusOpen   = "open"
	PostStatusClosed = "closed"
)

type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index;column:author_id" json:"author_id"`
	Title     string    `gorm:"not null;column:title" json:"title"`
	Body      string    `gorm:"type:text;column:body" json:"body"`
	Category  string    `gorm:"not null;index;column:category" json:"category"`
	Status    string    `gorm:"not null;default:open;column:status" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Post) TableName() string {
	return "post"
}

func ValidPostCategory(category string) bool {
	switch category {
	case PostCategoryProject, PostCategoryStudy, PostCategoryClub, PostCategoryContest, PostCategoryFree:
		return true
	default:
		return false
	}
}
