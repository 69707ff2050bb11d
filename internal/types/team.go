package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	TeamRoleOwner  = "owner"
	TeamRoleMember = "member"
)

type Team struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"not null;column:name" json:"name"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;not null;index;column:owner_id" json:"owner_id"`
	PostID    *uuid.UUID `gorm:"type:uuid;index;column:post_id" json:"post_id,omitempty"`
	Capacity  int        `gorm:"not null;default:4;column:capacity" json:"capacity"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

func (Team) TableName() string {
	return "team"
}

type TeamMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_team_member;column:team_id" json:"team_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_team_member;index;column:user_id" json:"user_id"`
	Role      string    `gorm:"not null;default:member;column:role" json:"role"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (TeamMember) TableName() string {
	return "team_member"
}
