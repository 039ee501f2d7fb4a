package types

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FieldID     uuid.UUID `gorm:"type:uuid;not null;index" json:"field_id"`
	Field       *Field    `gorm:"constraint:OnDelete:CASCADE;foreignKey:FieldID;references:ID" json:"field,omitempty"`
	Title       string    `gorm:"not null;index;column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	ImageURL    string    `gorm:"column:image_url" json:"image_url"`
	Topics      []Topic   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"topics,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Course) TableName() string { return "course" }
