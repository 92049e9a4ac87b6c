package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification stores in-app notification payloads scoped to a recipient.
// Rows are only ever mutated to set read_at.
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RecipientID uuid.UUID  `gorm:"column:recipient_id;type:uuid;not null;index"`
	Recipient   *User      `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	Message     string     `gorm:"type:text;not null"`
	ReadAt      *time.Time `gorm:"column:read_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// IsRead reports whether the notification has been acknowledged.
func (n Notification) IsRead() bool {
	return n.ReadAt != nil
}
