package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes the read-only aggregations behind the analytics surface.
type Repository interface {
	RatingWindow(ctx context.Context, productID uuid.UUID, since time.Time) (ratingWindow, error)
	VisibleBodies(ctx context.Context, productID uuid.UUID) ([]string, error)
	TopReviewers(ctx context.Context, limit int) ([]ReviewerResponse, error)
	SearchVisible(ctx context.Context, productID uuid.UUID, keyword string) ([]models.Review, error)
	TopRatedProducts(ctx context.Context, since time.Time, limit int) ([]TopProductResponse, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an analytics repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type ratingWindow struct {
	AverageRating float64
	ReviewCount   int64
}

func (r *repositoryImpl) RatingWindow(ctx context.Context, productID uuid.UUID, since time.Time) (ratingWindow, error) {
	var window ratingWindow
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS review_count").
		Where("product_id = ? AND is_visible = ? AND created_at >= ?", productID, true, since).
		Scan(&window).Error
	return window, err
}

func (r *repositoryImpl) VisibleBodies(ctx context.Context, productID uuid.UUID) ([]string, error) {
	var bodies []string
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ? AND is_visible = ?", productID, true).
		Order("created_at ASC, id ASC").
		Pluck("body", &bodies).Error
	return bodies, err
}

// TopReviewers counts every review an author has written, visible or not.
// Pending reviews still represent reviewer activity.
func (r *repositoryImpl) TopReviewers(ctx context.Context, limit int) ([]ReviewerResponse, error) {
	var rows []ReviewerResponse
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("reviews.author_id, users.username, COUNT(*) AS review_count").
		Joins("JOIN users ON users.id = reviews.author_id").
		Group("reviews.author_id, users.username").
		Order("review_count DESC, users.username ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// likeEscaper neutralizes LIKE metacharacters so a keyword such as "100%"
// matches literally instead of acting as a wildcard.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *repositoryImpl) SearchVisible(ctx context.Context, productID uuid.UUID, keyword string) ([]models.Review, error) {
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Where(`product_id = ? AND is_visible = ? AND LOWER(body) LIKE ? ESCAPE '\'`, productID, true, pattern).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) TopRatedProducts(ctx context.Context, since time.Time, limit int) ([]TopProductResponse, error) {
	var rows []TopProductResponse
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("reviews.product_id, products.name, AVG(reviews.rating) AS average_rating, COUNT(*) AS review_count").
		Joins("JOIN products ON products.id = reviews.product_id").
		Where("reviews.is_visible = ? AND reviews.created_at >= ?", true, since).
		Group("reviews.product_id, products.name").
		Order("average_rating DESC, review_count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
