package types

import (
	"time"

	"github.com/google/uuid"
)

// Field is a subject-matter category grouping courses. Deleting a field
// cascades to its courses.
type Field struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"not null;index;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	Courses     []Course  `gorm:"constraint:OnDelete:CASCADE;foreignKey:FieldID;references:ID" json:"courses,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Field) TableName() string { return "field" }
