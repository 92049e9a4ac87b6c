package reviews

import (
	"context"
	"errors"

	"github.com/batoolr/reviewhub-backend/internal/access"
	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	"github.com/batoolr/reviewhub-backend/pkg/enums"
	pkgerrors "github.com/batoolr/reviewhub-backend/pkg/errors"
	"github.com/batoolr/reviewhub-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines review submission, listing and author edits.
type Service interface {
	Create(ctx context.Context, productID, authorID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error)
	ListVisible(ctx context.Context, params ListParams) (*ListResult, error)
	Update(ctx context.Context, requesterID, reviewID uuid.UUID, req UpdateReviewRequest) (*ReviewResponse, error)
	Delete(ctx context.Context, requesterID, reviewID uuid.UUID) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     Repository
	products productFinder
}

// ListParams configures the public review listing.
type ListParams struct {
	ProductID uuid.UUID
	Rating    *int
	Order     enums.ReviewOrder
	Limit     int
	Cursor    string
}

// ListResult wraps returned reviews and the cursor for the next page.
type ListResult struct {
	Items  []ReviewResponse `json:"items"`
	Cursor string           `json:"cursor"`
}

// ServiceParams bundles the review service dependencies.
type ServiceParams struct {
	Repo     Repository
	Products productFinder
}

// NewService wires the reviews dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reviews repository required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products repository required")
	}
	return &service{repo: params.Repo, products: params.Products}, nil
}

// Create stores a new review. Reviews always start hidden and stay off public
// listings until a moderation approval.
func (s *service) Create(ctx context.Context, productID, authorID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error) {
	if authorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "author required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	review := &models.Review{
		ProductID: productID,
		AuthorID:  authorID,
		Rating:    req.Rating,
		Body:      req.Body,
		IsVisible: false,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	resp := FromModel(review)
	return &resp, nil
}

func (s *service) ListVisible(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if params.Rating != nil && (*params.Rating < 1 || *params.Rating > 5) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating filter must be between 1 and 5")
	}
	order := params.Order
	if order == "" {
		order = enums.ReviewOrderCreated
	}
	if !order.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order")
	}

	query := ListVisibleQuery{
		ProductID: params.ProductID,
		Rating:    params.Rating,
		Order:     order,
		Limit:     params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListVisible(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}

	items := make([]ReviewResponse, 0, len(rows))
	for i := range rows {
		items = append(items, FromModel(&rows[i]))
	}
	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: items, Cursor: cursor}, nil
}

func (s *service) Update(ctx context.Context, requesterID, reviewID uuid.UUID, req UpdateReviewRequest) (*ReviewResponse, error) {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !access.CanEditReview(requesterID, review) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the author can update a review")
	}

	fields := map[string]any{}
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
		}
		fields["rating"] = *req.Rating
	}
	if req.Body != nil {
		fields["body"] = *req.Body
	}

	if err := s.repo.Update(ctx, reviewID, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
	}

	updated, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	resp := FromModel(updated)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, requesterID, reviewID uuid.UUID) error {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if !access.CanDeleteReview(requesterID, review) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the author can delete a review")
	}
	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

func (s *service) findReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review id required")
	}
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	return review, nil
}
