package products

import (
	"time"

	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the payload for creating a listing.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=255"`
	Description string           `json:"description" validate:"max=4000"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

// UpdateProductRequest carries the mutable listing fields. Nil means unchanged.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=4000"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

// ProductResponse is the public shape of a listing.
type ProductResponse struct {
	ID          uuid.UUID        `json:"id"`
	OwnerID     uuid.UUID        `json:"owner_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// RatingSummary aggregates the visible reviews for a product.
type RatingSummary struct {
	ProductID     uuid.UUID `json:"product_id"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int64     `json:"review_count"`
}

// FromModel maps a persisted product onto its response shape.
func FromModel(product *models.Product) ProductResponse {
	if product == nil {
		return ProductResponse{}
	}
	return ProductResponse{
		ID:          product.ID,
		OwnerID:     product.OwnerID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
