package exports

import (
	"context"

	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes the catalog aggregations behind the export encodings.
type Repository interface {
	ProductStats(ctx context.Context, lowRatingMax int) ([]ProductStats, error)
	VisibleBodies(ctx context.Context) ([]ProductBody, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an exports repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// ProductStats is one product row of the export, with review aggregates.
// Rating averages only count visible reviews; pending counts hidden ones.
type ProductStats struct {
	ProductID     uuid.UUID
	Name          string
	AverageRating float64
	ReviewCount   int64
	LowRatedCount int64
	PendingCount  int64
}

// ProductBody pairs a visible review body with its product.
type ProductBody struct {
	ProductID uuid.UUID
	Body      string
}

func (r *repositoryImpl) ProductStats(ctx context.Context, lowRatingMax int) ([]ProductStats, error) {
	var rows []ProductStats
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select(`products.id AS product_id,
			products.name,
			COALESCE(AVG(CASE WHEN reviews.is_visible THEN reviews.rating END), 0) AS average_rating,
			COUNT(CASE WHEN reviews.is_visible THEN 1 END) AS review_count,
			COUNT(CASE WHEN reviews.is_visible AND reviews.rating <= ? THEN 1 END) AS low_rated_count,
			COUNT(CASE WHEN reviews.id IS NOT NULL AND NOT reviews.is_visible THEN 1 END) AS pending_count`, lowRatingMax).
		Joins("LEFT JOIN reviews ON reviews.product_id = products.id").
		Group("products.id, products.name").
		Order("products.name ASC, products.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repositoryImpl) VisibleBodies(ctx context.Context) ([]ProductBody, error) {
	var rows []ProductBody
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("reviews.product_id, reviews.body").
		Where("reviews.is_visible = ?", true).
		Order("reviews.created_at ASC, reviews.id ASC").
		Scan(&rows).Error
	return rows, err
}
