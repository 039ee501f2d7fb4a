package types

import (
	"time"

	"github.com/google/uuid"
)

type ContactMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Email     string    `gorm:"not null;column:email" json:"email"`
	Message   string    `gorm:"not null;column:message" json:"message"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ContactMessage) TableName() string { return "contact_message" }
