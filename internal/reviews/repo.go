package reviews

import (
	"context"

	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	"github.com/batoolr/reviewhub-backend/pkg/enums"
	"github.com/batoolr/reviewhub-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const engagementExpr = "(SELECT COALESCE(SUM((CASE WHEN liked THEN 1 ELSE 0 END) + (CASE WHEN is_helpful THEN 1 ELSE 0 END)), 0) FROM review_interactions WHERE review_interactions.review_id = reviews.id)"

// Repository exposes review persistence helpers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	FindByIDWithProduct(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListVisible(ctx context.Context, params ListVisibleQuery) ([]models.Review, *pagination.Cursor, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a reviews repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// ListVisibleQuery configures the public review listing.
type ListVisibleQuery struct {
	ProductID uuid.UUID
	Rating    *int
	Order     enums.ReviewOrder
	Limit     int
	Cursor    *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repositoryImpl) FindByIDWithProduct(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Preload("Product").First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repositoryImpl) ListVisible(ctx context.Context, params ListVisibleQuery) ([]models.Review, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("product_id = ? AND is_visible = ?", params.ProductID, true)
	if params.Rating != nil {
		query = query.Where("rating = ?", *params.Rating)
	}

	// Engagement ordering cannot use the (created_at, id) cursor; callers get
	// plain limited pages for that order.
	if params.Order == enums.ReviewOrderEngagement {
		var rows []models.Review
		err := query.Order(engagementExpr + " DESC").
			Order("created_at DESC, id DESC").
			Limit(pagination.NormalizeLimit(params.Limit)).
			Find(&rows).Error
		if err != nil {
			return nil, nil, err
		}
		return rows, nil, nil
	}

	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Review
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		next := rows[normalized]
		rows = rows[:normalized]
		return rows, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rows, nil, nil
}

func (r *repositoryImpl) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id).Error
}

func (r *repositoryImpl) SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		UpdateColumn("is_visible", visible).Error
}
