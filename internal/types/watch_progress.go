package types

import (
	"time"

	"github.com/google/uuid"
)

// WatchProgress holds per-user, per-topic watch state. One row per pair;
// writes overwrite elapsed seconds and the completed flag.
type WatchProgress struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_user_topic,unique" json:"user_id"`
	User           *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TopicID        uuid.UUID `gorm:"type:uuid;not null;index:idx_user_topic,unique" json:"topic_id"`
	Topic          *Topic    `gorm:"constraint:OnDelete:CASCADE;foreignKey:TopicID;references:ID" json:"topic,omitempty"`
	ElapsedSeconds int       `gorm:"column:elapsed_seconds;not null;default:0" json:"elapsed_seconds"`
	Completed      bool      `gorm:"column:completed;not null;default:false" json:"completed"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:now();index" json:"updated_at"`
}

func (WatchProgress) TableName() string { return "watch_progress" }
