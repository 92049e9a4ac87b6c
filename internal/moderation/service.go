package moderation

import (
	"context"
	"errors"

	"github.com/batoolr/reviewhub-backend/internal/access"
	"github.com/batoolr/reviewhub-backend/internal/notifications"
	"github.com/batoolr/reviewhub-backend/internal/reviews"
	"github.com/batoolr/reviewhub-backend/pkg/config"
	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	"github.com/batoolr/reviewhub-backend/pkg/enums"
	pkgerrors "github.com/batoolr/reviewhub-backend/pkg/errors"
	"github.com/batoolr/reviewhub-backend/pkg/textscan"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the moderation surface for product owners.
type Service interface {
	Approve(ctx context.Context, requesterID, reviewID uuid.UUID) (*ActionResult, error)
	Reject(ctx context.Context, requesterID, reviewID uuid.UUID) (*ActionResult, error)
	Flag(ctx context.Context, requesterID, reviewID uuid.UUID) (*ActionResult, error)
	StaffApprove(ctx context.Context, requesterID uuid.UUID, role enums.UserRole, reviewID uuid.UUID) (*ActionResult, error)
	ListReports(ctx context.Context, requesterID uuid.UUID, filters ReportFilters) (*ReportsResult, error)
	Dashboard(ctx context.Context, requesterID uuid.UUID) (*Dashboard, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx            txRunner
	reviews       reviews.Repository
	repo          Repository
	notifications notifications.Repository
	cfg           config.ModerationConfig
}

// ServiceParams bundles the moderation service dependencies.
type ServiceParams struct {
	Tx            txRunner
	Reviews       reviews.Repository
	Repo          Repository
	Notifications notifications.Repository
	Config        config.ModerationConfig
}

// NewService wires the moderation dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Reviews == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reviews repository required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "moderation repository required")
	}
	if params.Notifications == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{
		tx:            params.Tx,
		reviews:       params.Reviews,
		repo:          params.Repo,
		notifications: params.Notifications,
		cfg:           params.Config,
	}, nil
}

// Approve publishes a review. Approving an already visible review is a no-op
// and does not notify the author again.
func (s *service) Approve(ctx context.Context, requesterID, reviewID uuid.UUID) (*ActionResult, error) {
	review, err := s.loadForModeration(ctx, requesterID, reviewID)
	if err != nil {
		return nil, err
	}

	changed := !review.IsVisible
	if changed {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.reviews.WithTx(tx).SetVisibility(ctx, reviewID, true); err != nil {
				return err
			}
			return s.notifications.WithTx(tx).Create(ctx, &models.Notification{
				RecipientID: review.AuthorID,
				Message:     "Your review has been approved and is now public.",
			})
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve review")
		}
	}
	return &ActionResult{ReviewID: reviewID, IsVisible: true, Changed: changed}, nil
}

// Reject hides a review and appends a rejected audit report. The report is
// written on every call so repeated rejections stay traceable.
func (s *service) Reject(ctx context.Context, requesterID, reviewID uuid.UUID) (*ActionResult, error) {
	review, err := s.loadForModeration(ctx, requesterID, reviewID)
	if err != nil {
		return nil, err
	}

	wasVisible := review.IsVisible
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if wasVisible {
			if err := s.reviews.WithTx(tx).SetVisibility(ctx, reviewID, false); err != nil {
				return err
			}
		}
		if err := s.repo.WithTx(tx).CreateReport(ctx, &models.AdminReport{
			ReviewID: reviewID,
			Status:   enums.ReportStatusRejected,
		}); err != nil {
			return err
		}
		if wasVisible {
			return s.notifications.WithTx(tx).Create(ctx, &models.Notification{
				RecipientID: review.AuthorID,
				Message:     "Your review has been rejected and is no longer public.",
			})
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject review")
	}
	return &ActionResult{ReviewID: reviewID, IsVisible: false, Changed: wasVisible}, nil
}

// Flag records a pending report without touching visibility.
func (s *service) Flag(ctx context.Context, requesterID, reviewID uuid.UUID) (*ActionResult, error) {
	review, err := s.loadForModeration(ctx, requesterID, reviewID)
	if err != nil {
		return nil, err
	}

	report := &models.AdminReport{
		ReviewID: reviewID,
		Status:   enums.ReportStatusPending,
	}
	if err := s.repo.CreateReport(ctx, report); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flag review")
	}
	return &ActionResult{ReviewID: reviewID, IsVisible: review.IsVisible, Changed: false}, nil
}

// StaffApprove is the staff-only approval surface. Staff still moderate only
// reviews on their own products.
func (s *service) StaffApprove(ctx context.Context, requesterID uuid.UUID, role enums.UserRole, reviewID uuid.UUID) (*ActionResult, error) {
	if !access.CanStaffApprove(role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	return s.Approve(ctx, requesterID, reviewID)
}

func (s *service) ListReports(ctx context.Context, requesterID uuid.UUID, filters ReportFilters) (*ReportsResult, error) {
	if requesterID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if filters.Rating != nil && (*filters.Rating < 1 || *filters.Rating > 5) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating filter must be between 1 and 5")
	}
	if filters.Category != nil && !filters.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid report category")
	}
	if filters.From != nil && filters.To != nil && filters.To.Before(*filters.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range end must come after start")
	}

	rows, err := s.repo.ListOwnedReviews(ctx, requesterID, ownedReviewFilters{
		ProductID: filters.ProductID,
		Rating:    filters.Rating,
		From:      filters.From,
		To:        filters.To,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list moderation reports")
	}

	result := &ReportsResult{Items: []ReportItem{}}
	for i := range rows {
		item := s.buildItem(&rows[i])

		result.Summary.Total++
		if item.IsVisible {
			result.Summary.Approved++
		}
		for _, category := range item.Categories {
			switch category {
			case enums.ReportCategoryUnapproved:
				result.Summary.Unapproved++
			case enums.ReportCategoryLowRated:
				result.Summary.LowRated++
			case enums.ReportCategoryOffensive:
				result.Summary.Offensive++
			}
		}

		if filters.Category != nil && !hasCategory(item.Categories, *filters.Category) {
			continue
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

func (s *service) Dashboard(ctx context.Context, requesterID uuid.UUID) (*Dashboard, error) {
	if requesterID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}

	productCount, err := s.repo.OwnedProductCount(ctx, requesterID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	rows, err := s.repo.ListOwnedReviews(ctx, requesterID, ownedReviewFilters{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}

	dashboard := &Dashboard{
		Overview: DashboardOverview{
			TotalProducts: productCount,
			TotalReviews:  int64(len(rows)),
		},
		RatingDistribution: map[string]int64{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0},
	}
	for i := range rows {
		review := &rows[i]
		if review.IsVisible {
			dashboard.Overview.ApprovedReviews++
		} else {
			dashboard.Overview.PendingReviews++
			dashboard.Alerts.UnapprovedCount++
		}
		if review.Rating >= 1 && review.Rating <= 5 {
			dashboard.RatingDistribution[ratingKey(review.Rating)]++
		}
		if review.Rating <= s.cfg.LowRatingMax {
			dashboard.Alerts.LowRatedCount++
		}
		if textscan.ContainsAny(review.Body, s.cfg.BannedWords) {
			dashboard.Alerts.OffensiveCount++
		}
	}
	return dashboard, nil
}

// loadForModeration fetches the review with its product and enforces the
// product owner check.
func (s *service) loadForModeration(ctx context.Context, requesterID, reviewID uuid.UUID) (*models.Review, error) {
	if requesterID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if reviewID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review id required")
	}
	review, err := s.reviews.FindByIDWithProduct(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if !access.CanModerateReview(requesterID, review) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the product owner can moderate this review")
	}
	return review, nil
}

func (s *service) buildItem(review *models.Review) ReportItem {
	item := ReportItem{
		ReviewID:   review.ID,
		ProductID:  review.ProductID,
		AuthorID:   review.AuthorID,
		Rating:     review.Rating,
		Body:       review.Body,
		IsVisible:  review.IsVisible,
		Categories: []enums.ReportCategory{},
		CreatedAt:  review.CreatedAt,
	}
	if review.Product != nil {
		item.ProductName = review.Product.Name
	}
	if !review.IsVisible {
		item.Categories = append(item.Categories, enums.ReportCategoryUnapproved)
	}
	if review.Rating <= s.cfg.LowRatingMax {
		item.Categories = append(item.Categories, enums.ReportCategoryLowRated)
	}
	if textscan.ContainsAny(review.Body, s.cfg.BannedWords) {
		item.Categories = append(item.Categories, enums.ReportCategoryOffensive)
	}
	return item
}

func hasCategory(categories []enums.ReportCategory, want enums.ReportCategory) bool {
	for _, category := range categories {
		if category == want {
			return true
		}
	}
	return false
}

func ratingKey(rating int) string {
	return string(rune('0' + rating))
}
