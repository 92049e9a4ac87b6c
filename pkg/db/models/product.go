package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a listing owned by exactly one user. Deleting the owner
// cascades to the product, and deleting the product cascades to its reviews.
type Product struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     uuid.UUID        `gorm:"column:owner_id;type:uuid;not null"`
	Owner       *User            `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Name        string           `gorm:"type:text;not null"`
	Description string           `gorm:"type:text;not null"`
	Price       *decimal.Decimal `gorm:"type:numeric(10,2)"`
	Reviews     []Review         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
