package products

import (
	"context"
	"errors"
	"strings"

	"github.com/batoolr/reviewhub-backend/internal/access"
	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	pkgerrors "github.com/batoolr/reviewhub-backend/pkg/errors"
	"github.com/batoolr/reviewhub-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines product CRUD and rating aggregation.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, req CreateProductRequest) (*ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Update(ctx context.Context, requesterID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error)
	Delete(ctx context.Context, requesterID, id uuid.UUID) error
	Ratings(ctx context.Context, id uuid.UUID) (*RatingSummary, error)
}

type service struct {
	repo Repository
}

// ListParams configures pagination for the public listing.
type ListParams struct {
	Limit  int
	Cursor string
}

// ListResult wraps returned products and the cursor for the next page.
type ListResult struct {
	Items  []ProductResponse `json:"items"`
	Cursor string            `json:"cursor"`
}

// NewService wires the products dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "owner required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	product := &models.Product{
		OwnerID:     ownerID,
		Name:        name,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	resp := FromModel(product)
	return &resp, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := FromModel(product)
	return &resp, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listProductsParams{Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	items := make([]ProductResponse, 0, len(rows))
	for i := range rows {
		items = append(items, FromModel(&rows[i]))
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: items, Cursor: cursor}, nil
}

func (s *service) Update(ctx context.Context, requesterID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanEditProduct(requesterID, product) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can update a product")
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	updated, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := FromModel(updated)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, requesterID, id uuid.UUID) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanDeleteProduct(requesterID, product) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can delete a product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) Ratings(ctx context.Context, id uuid.UUID) (*RatingSummary, error) {
	if _, err := s.findProduct(ctx, id); err != nil {
		return nil, err
	}
	summary, err := s.repo.RatingSummary(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product ratings")
	}
	return &summary, nil
}

func (s *service) findProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
