package analytics

import (
	"time"

	"github.com/google/uuid"
)

// TrendResponse summarizes visible ratings over a trailing window.
type TrendResponse struct {
	ProductID     uuid.UUID `json:"product_id"`
	WindowDays    int       `json:"window_days"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int64     `json:"review_count"`
}

// WordCountResponse is one entry of the common-words ranking.
type WordCountResponse struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ReviewerResponse is one entry of the top-reviewers ranking.
type ReviewerResponse struct {
	AuthorID    uuid.UUID `json:"author_id"`
	Username    string    `json:"username"`
	ReviewCount int64     `json:"review_count"`
}

// SearchHit is one keyword search match.
type SearchHit struct {
	ReviewID  uuid.UUID `json:"review_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TopProductResponse is one entry of the top-rated products ranking.
type TopProductResponse struct {
	ProductID     uuid.UUID `json:"product_id"`
	Name          string    `json:"name"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int64     `json:"review_count"`
}
