package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Topic is a single instructional video attached to a course. VideoID is
// extracted from the embed URL when possible and may be empty.
type Topic struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	Course        *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Name          string         `gorm:"not null;column:name" json:"name"`
	URL           string         `gorm:"not null;column:url" json:"url"`
	VideoID       string         `gorm:"column:video_id" json:"video_id,omitempty"`
	ThumbnailURL  string         `gorm:"column:thumbnail_url" json:"thumbnail_url"`
	Channel       string         `gorm:"column:channel" json:"channel"`
	Duration      string         `gorm:"column:duration" json:"duration"`
	ViewCount     int64          `gorm:"column:view_count;not null;default:0" json:"view_count"`
	IsRecommended bool           `gorm:"column:is_recommended;not null;default:false" json:"is_recommended"`
	Description   string         `gorm:"column:description" json:"description"`
	Metadata      datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (Topic) TableName() string { return "topic" }
