package types

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is created explicitly right after the user row, never by a
// persistence hook.
type UserProfile struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Location   string    `gorm:"column:location" json:"location"`
	AvatarURL  string    `gorm:"column:avatar_url" json:"avatar_url"`
	LastActive time.Time `gorm:"column:last_active;not null;default:now()" json:"last_active"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profile" }
