package interactions

import (
	"time"

	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	"github.com/google/uuid"
)

// RecordInteractionRequest is the payload for voting on a review.
type RecordInteractionRequest struct {
	ReviewID  uuid.UUID `json:"review_id" validate:"required"`
	Liked     bool      `json:"liked"`
	IsHelpful bool      `json:"is_helpful"`
}

// UpdateInteractionRequest carries the mutable vote flags. Nil means unchanged.
type UpdateInteractionRequest struct {
	Liked     *bool `json:"liked,omitempty"`
	IsHelpful *bool `json:"is_helpful,omitempty"`
}

// InteractionResponse is the serialized interaction shape.
type InteractionResponse struct {
	ID        uuid.UUID `json:"id"`
	ReviewID  uuid.UUID `json:"review_id"`
	UserID    uuid.UUID `json:"user_id"`
	Liked     bool      `json:"liked"`
	IsHelpful bool      `json:"is_helpful"`
	CreatedAt time.Time `json:"created_at"`
}

// StatsResponse aggregates votes for one review.
type StatsResponse struct {
	ReviewID     uuid.UUID `json:"review_id"`
	LikesCount   int64     `json:"likes_count"`
	HelpfulCount int64     `json:"helpful_count"`
	Total        int64     `json:"total"`
}

// FromModel maps a persisted interaction onto its response shape.
func FromModel(interaction *models.ReviewInteraction) InteractionResponse {
	if interaction == nil {
		return InteractionResponse{}
	}
	return InteractionResponse{
		ID:        interaction.ID,
		ReviewID:  interaction.ReviewID,
		UserID:    interaction.UserID,
		Liked:     interaction.Liked,
		IsHelpful: interaction.IsHelpful,
		CreatedAt: interaction.CreatedAt,
	}
}
