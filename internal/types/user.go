package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	UserStatusPending  = "pending"
	UserStatusApproved = "approved"
	UserStatusRejected = "rejected"
)

const (
	UserRoleMember = "member"
	UserRoleAdmin  = "admin"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email      string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password   string    `gorm:"not null;column:password" json:"-"`
	FirstName  string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName   string    `gorm:"not null;column:last_name" json:"last_name"`
	Department string    `gorm:"column:department" json:"department"`
	Bio        string    `gorm:"type:text;column:bio" json:"bio"`
	Status     string    `gorm:"not null;default:pending;index;column:status" json:"status"`
	Role       string    `gorm:"not null;default:member;column:role" json:"role"`

	AvatarColor string `gorm:"column:avatar_color" json:"avatar_color"`
	AvatarPath  string `gorm:"column:avatar_path" json:"avatar_path"`

	// Reserved for a future embedding-based ranker; nothing writes it today.
	ProfileVector datatypes.JSON `gorm:"column:profile_vector" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

func (u *User) IsApproved() bool {
	return u.Status == UserStatusApproved
}
