package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a user-submitted product review. Reviews start hidden and only
// become publicly listable after an explicit moderation approval.
type Review struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID           `gorm:"column:product_id;type:uuid;not null;index"`
	Product      *Product            `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	AuthorID     uuid.UUID           `gorm:"column:author_id;type:uuid;not null;index"`
	Author       *User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Rating       int                 `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Body         string              `gorm:"type:text;not null"`
	IsVisible    bool                `gorm:"column:is_visible;not null;default:false"`
	Interactions []ReviewInteraction `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
	Reports      []AdminReport       `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
