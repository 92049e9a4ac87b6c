package moderation

import (
	"context"
	"time"

	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes moderation persistence helpers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateReport(ctx context.Context, report *models.AdminReport) error
	ListOwnedReviews(ctx context.Context, ownerID uuid.UUID, filters ownedReviewFilters) ([]models.Review, error)
	OwnedProductCount(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a moderation repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type ownedReviewFilters struct {
	ProductID *uuid.UUID
	Rating    *int
	From      *time.Time
	To        *time.Time
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) CreateReport(ctx context.Context, report *models.AdminReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// ListOwnedReviews returns every review on the owner's products, newest first.
// The date range is inclusive on From and exclusive on To.
func (r *repositoryImpl) ListOwnedReviews(ctx context.Context, ownerID uuid.UUID, filters ownedReviewFilters) ([]models.Review, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Joins("JOIN products ON products.id = reviews.product_id").
		Where("products.owner_id = ?", ownerID).
		Preload("Product")

	if filters.ProductID != nil {
		query = query.Where("reviews.product_id = ?", *filters.ProductID)
	}
	if filters.Rating != nil {
		query = query.Where("reviews.rating = ?", *filters.Rating)
	}
	if filters.From != nil {
		query = query.Where("reviews.created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("reviews.created_at < ?", *filters.To)
	}

	var rows []models.Review
	if err := query.Order("reviews.created_at DESC, reviews.id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) OwnedProductCount(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}
