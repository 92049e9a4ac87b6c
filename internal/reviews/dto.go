package reviews

import (
	"time"

	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CreateReviewRequest is the payload for submitting a review.
type CreateReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Body   string `json:"body" validate:"required,max=4000"`
}

// UpdateReviewRequest carries the mutable review fields. Nil means unchanged.
type UpdateReviewRequest struct {
	Rating *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Body   *string `json:"body,omitempty" validate:"omitempty,max=4000"`
}

// ReviewResponse is the serialized review shape.
type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	IsVisible bool      `json:"is_visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModel maps a persisted review onto its response shape.
func FromModel(review *models.Review) ReviewResponse {
	if review == nil {
		return ReviewResponse{}
	}
	return ReviewResponse{
		ID:        review.ID,
		ProductID: review.ProductID,
		AuthorID:  review.AuthorID,
		Rating:    review.Rating,
		Body:      review.Body,
		IsVisible: review.IsVisible,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}
