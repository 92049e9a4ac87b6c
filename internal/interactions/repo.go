package interactions

import (
	"context"

	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const engagementExpr = "(SELECT COALESCE(SUM((CASE WHEN liked THEN 1 ELSE 0 END) + (CASE WHEN is_helpful THEN 1 ELSE 0 END)), 0) FROM review_interactions WHERE review_interactions.review_id = reviews.id)"

// Repository exposes interaction persistence helpers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, interaction *models.ReviewInteraction) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ReviewInteraction, error)
	ExistsForPair(ctx context.Context, reviewID, userID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ReviewInteraction, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, reviewID uuid.UUID) (StatsResponse, error)
	TopReview(ctx context.Context, productID uuid.UUID) (*models.Review, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an interactions repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, interaction *models.ReviewInteraction) error {
	return r.db.WithContext(ctx).Create(interaction).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.ReviewInteraction, error) {
	var interaction models.ReviewInteraction
	if err := r.db.WithContext(ctx).First(&interaction, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &interaction, nil
}

func (r *repositoryImpl) ExistsForPair(ctx context.Context, reviewID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ReviewInteraction{}).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ReviewInteraction, error) {
	var rows []models.ReviewInteraction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.ReviewInteraction{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ReviewInteraction{}, "id = ?", id).Error
}

func (r *repositoryImpl) Stats(ctx context.Context, reviewID uuid.UUID) (StatsResponse, error) {
	var row struct {
		Likes   int64
		Helpful int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.ReviewInteraction{}).
		Select("COALESCE(SUM(CASE WHEN liked THEN 1 ELSE 0 END), 0) AS likes, COALESCE(SUM(CASE WHEN is_helpful THEN 1 ELSE 0 END), 0) AS helpful").
		Where("review_id = ?", reviewID).
		Scan(&row).Error
	if err != nil {
		return StatsResponse{}, err
	}
	return StatsResponse{
		ReviewID:     reviewID,
		LikesCount:   row.Likes,
		HelpfulCount: row.Helpful,
		Total:        row.Likes + row.Helpful,
	}, nil
}

// TopReview returns the product review with the most combined votes. Ties go
// to the earliest created review, then the smallest id.
func (r *repositoryImpl) TopReview(ctx context.Context, productID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ?", productID).
		Order(engagementExpr + " DESC").
		Order("created_at ASC, id ASC").
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}
