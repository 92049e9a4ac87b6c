package moderation

import (
	"time"

	"github.com/batoolr/reviewhub-backend/pkg/enums"
	"github.com/google/uuid"
)

// ActionResult reports the outcome of a moderation action.
type ActionResult struct {
	ReviewID  uuid.UUID `json:"review_id"`
	IsVisible bool      `json:"is_visible"`
	Changed   bool      `json:"changed"`
}

// ReportFilters narrows the moderation report listing. All fields optional.
type ReportFilters struct {
	ProductID *uuid.UUID
	Rating    *int
	From      *time.Time
	To        *time.Time
	Category  *enums.ReportCategory
}

// ReportItem is one reviewed entry in the moderation report listing.
type ReportItem struct {
	ReviewID    uuid.UUID              `json:"review_id"`
	ProductID   uuid.UUID              `json:"product_id"`
	ProductName string                 `json:"product_name"`
	AuthorID    uuid.UUID              `json:"author_id"`
	Rating      int                    `json:"rating"`
	Body        string                 `json:"body"`
	IsVisible   bool                   `json:"is_visible"`
	Categories  []enums.ReportCategory `json:"categories"`
	CreatedAt   time.Time              `json:"created_at"`
}

// ReportSummary aggregates the listing before the category filter applies.
type ReportSummary struct {
	Total      int64 `json:"total"`
	Unapproved int64 `json:"unapproved"`
	LowRated   int64 `json:"low_rated"`
	Offensive  int64 `json:"offensive"`
	Approved   int64 `json:"approved"`
}

// ReportsResult is the moderation report payload.
type ReportsResult struct {
	Summary ReportSummary `json:"summary"`
	Items   []ReportItem  `json:"items"`
}

// DashboardOverview holds the headline counts for the requester's catalog.
type DashboardOverview struct {
	TotalProducts   int64 `json:"total_products"`
	TotalReviews    int64 `json:"total_reviews"`
	ApprovedReviews int64 `json:"approved_reviews"`
	PendingReviews  int64 `json:"pending_reviews"`
}

// DashboardAlerts surfaces reviews needing moderator attention.
type DashboardAlerts struct {
	UnapprovedCount int64 `json:"unapproved_count"`
	LowRatedCount   int64 `json:"low_rated_count"`
	OffensiveCount  int64 `json:"offensive_count"`
}

// Dashboard is the moderation dashboard payload.
type Dashboard struct {
	Overview           DashboardOverview `json:"overview"`
	RatingDistribution map[string]int64  `json:"rating_distribution"`
	Alerts             DashboardAlerts   `json:"alerts"`
}
