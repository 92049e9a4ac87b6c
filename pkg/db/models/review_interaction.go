package models

import (
	"time"

	"github.com/google/uuid"
)

// UniqueReviewInteraction names the one-interaction-per-user constraint so
// repositories can recognize violations.
const UniqueReviewInteraction = "ux_review_interactions_review_user"

// ReviewInteraction records a single user's like/helpful vote on a review.
// At most one row may exist per (review, user) pair.
type ReviewInteraction struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ReviewID  uuid.UUID `gorm:"column:review_id;type:uuid;not null;uniqueIndex:ux_review_interactions_review_user"`
	Review    *Review   `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_review_interactions_review_user"`
	Liked     bool      `gorm:"not null;default:false"`
	IsHelpful bool      `gorm:"column:is_helpful;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
