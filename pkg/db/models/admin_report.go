package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/batoolr/reviewhub-backend/pkg/enums"
)

// AdminReport is an append-only audit record created by reject/flag
// moderation actions.
type AdminReport struct {
	ID        uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ReviewID  uuid.UUID          `gorm:"column:review_id;type:uuid;not null;index"`
	Review    *Review            `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
	Status    enums.ReportStatus `gorm:"type:text;not null;default:pending"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}
