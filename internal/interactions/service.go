package interactions

import (
	"context"
	"errors"

	"github.com/batoolr/reviewhub-backend/internal/access"
	"github.com/batoolr/reviewhub-backend/internal/notifications"
	"github.com/batoolr/reviewhub-backend/pkg/db"
	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	pkgerrors "github.com/batoolr/reviewhub-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines interaction recording and aggregation.
type Service interface {
	Record(ctx context.Context, userID uuid.UUID, req RecordInteractionRequest) (*InteractionResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]InteractionResponse, error)
	Update(ctx context.Context, requesterID, interactionID uuid.UUID, req UpdateInteractionRequest) (*InteractionResponse, error)
	Delete(ctx context.Context, requesterID, interactionID uuid.UUID) error
	Stats(ctx context.Context, reviewID uuid.UUID) (*StatsResponse, error)
	TopReview(ctx context.Context, productID uuid.UUID) (*TopReviewResult, error)
}

type reviewFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx            txRunner
	repo          Repository
	reviews       reviewFinder
	notifications notifications.Repository
}

// TopReviewResult pairs the winning review with its vote totals.
type TopReviewResult struct {
	ReviewID  uuid.UUID     `json:"review_id"`
	ProductID uuid.UUID     `json:"product_id"`
	AuthorID  uuid.UUID     `json:"author_id"`
	Rating    int           `json:"rating"`
	Body      string        `json:"body"`
	Stats     StatsResponse `json:"stats"`
}

// ServiceParams bundles the interaction service dependencies.
type ServiceParams struct {
	Tx            txRunner
	Repo          Repository
	Reviews       reviewFinder
	Notifications notifications.Repository
}

// NewService wires the interaction dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "interactions repository required")
	}
	if params.Reviews == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reviews repository required")
	}
	if params.Notifications == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{
		tx:            params.Tx,
		repo:          params.Repo,
		reviews:       params.Reviews,
		notifications: params.Notifications,
	}, nil
}

// Record stores a vote. Review authors cannot vote on their own reviews, and
// each (review, user) pair gets at most one interaction. The unique index
// backs the duplicate check under concurrent requests.
func (s *service) Record(ctx context.Context, userID uuid.UUID, req RecordInteractionRequest) (*InteractionResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	review, err := s.reviews.FindByID(ctx, req.ReviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if review.AuthorID == userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "you cannot interact with your own review")
	}

	exists, err := s.repo.ExistsForPair(ctx, req.ReviewID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing interaction")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "you have already interacted with this review")
	}

	interaction := &models.ReviewInteraction{
		ReviewID:  req.ReviewID,
		UserID:    userID,
		Liked:     req.Liked,
		IsHelpful: req.IsHelpful,
	}
	notification := &models.Notification{
		RecipientID: review.AuthorID,
		Message:     "Your review received a new interaction.",
	}

	// Vote and notification commit or roll back together.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, interaction); err != nil {
			if db.IsUniqueViolation(err, models.UniqueReviewInteraction) {
				return pkgerrors.New(pkgerrors.CodeValidation, "you have already interacted with this review")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create interaction")
		}
		if err := s.notifications.WithTx(tx).Create(ctx, notification); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "notify review author")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := FromModel(interaction)
	return &resp, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]InteractionResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list interactions")
	}
	items := make([]InteractionResponse, 0, len(rows))
	for i := range rows {
		items = append(items, FromModel(&rows[i]))
	}
	return items, nil
}

func (s *service) Update(ctx context.Context, requesterID, interactionID uuid.UUID, req UpdateInteractionRequest) (*InteractionResponse, error) {
	interaction, err := s.findInteraction(ctx, interactionID)
	if err != nil {
		return nil, err
	}
	if !access.CanEditInteraction(requesterID, interaction) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the interaction owner can update it")
	}

	fields := map[string]any{}
	if req.Liked != nil {
		fields["liked"] = *req.Liked
	}
	if req.IsHelpful != nil {
		fields["is_helpful"] = *req.IsHelpful
	}
	if err := s.repo.Update(ctx, interactionID, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update interaction")
	}

	updated, err := s.findInteraction(ctx, interactionID)
	if err != nil {
		return nil, err
	}
	resp := FromModel(updated)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, requesterID, interactionID uuid.UUID) error {
	interaction, err := s.findInteraction(ctx, interactionID)
	if err != nil {
		return err
	}
	if !access.CanDeleteInteraction(requesterID, interaction) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the interaction owner can delete it")
	}
	if err := s.repo.Delete(ctx, interactionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete interaction")
	}
	return nil
}

func (s *service) Stats(ctx context.Context, reviewID uuid.UUID) (*StatsResponse, error) {
	if reviewID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review id required")
	}
	if _, err := s.reviews.FindByID(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	stats, err := s.repo.Stats(ctx, reviewID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "interaction stats")
	}
	return &stats, nil
}

func (s *service) TopReview(ctx context.Context, productID uuid.UUID) (*TopReviewResult, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	review, err := s.repo.TopReview(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product has no reviews")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "top review")
	}
	stats, err := s.repo.Stats(ctx, review.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "interaction stats")
	}
	return &TopReviewResult{
		ReviewID:  review.ID,
		ProductID: review.ProductID,
		AuthorID:  review.AuthorID,
		Rating:    review.Rating,
		Body:      review.Body,
		Stats:     stats,
	}, nil
}

func (s *service) findInteraction(ctx context.Context, id uuid.UUID) (*models.ReviewInteraction, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "interaction id required")
	}
	interaction, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "interaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load interaction")
	}
	return interaction, nil
}
