package analytics

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/batoolr/reviewhub-backend/pkg/config"
	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	pkgerrors "github.com/batoolr/reviewhub-backend/pkg/errors"
	"github.com/batoolr/reviewhub-backend/pkg/textscan"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	commonWordMinLen  = 4
	defaultWordLimit  = 10
	defaultTopLimit   = 5
	maxRankingLimit   = 50
	topRatedSpanLimit = 20
)

// Service defines the analytics read surface.
type Service interface {
	RatingTrend(ctx context.Context, productID uuid.UUID, windowDays int) (*TrendResponse, error)
	CommonWords(ctx context.Context, productID uuid.UUID, limit int) ([]WordCountResponse, error)
	TopReviewers(ctx context.Context, limit int) ([]ReviewerResponse, error)
	KeywordSearch(ctx context.Context, productID uuid.UUID, keyword string) ([]SearchHit, error)
	TopRatedProducts(ctx context.Context, windowDays, limit int) ([]TopProductResponse, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     Repository
	products productFinder
	cfg      config.ModerationConfig
	now      func() time.Time
}

// ServiceParams bundles the analytics service dependencies.
type ServiceParams struct {
	Repo     Repository
	Products productFinder
	Config   config.ModerationConfig
	Now      func() time.Time
}

// NewService wires the analytics dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "analytics repository required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products repository required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		products: params.Products,
		cfg:      params.Config,
		now:      now,
	}, nil
}

// RatingTrend averages visible ratings over the trailing window. An empty
// window yields an average of zero rather than an error.
func (s *service) RatingTrend(ctx context.Context, productID uuid.UUID, windowDays int) (*TrendResponse, error) {
	if err := s.checkProduct(ctx, productID); err != nil {
		return nil, err
	}
	windowDays = s.normalizeWindow(windowDays)

	since := s.now().AddDate(0, 0, -windowDays)
	window, err := s.repo.RatingWindow(ctx, productID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rating trend")
	}
	return &TrendResponse{
		ProductID:     productID,
		WindowDays:    windowDays,
		AverageRating: round2(window.AverageRating),
		ReviewCount:   window.ReviewCount,
	}, nil
}

func (s *service) CommonWords(ctx context.Context, productID uuid.UUID, limit int) ([]WordCountResponse, error) {
	if err := s.checkProduct(ctx, productID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxRankingLimit {
		limit = defaultWordLimit
	}

	bodies, err := s.repo.VisibleBodies(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "common words")
	}

	counts := textscan.TopWords(bodies, commonWordMinLen, limit)
	items := make([]WordCountResponse, 0, len(counts))
	for _, wc := range counts {
		items = append(items, WordCountResponse{Word: wc.Word, Count: wc.Count})
	}
	return items, nil
}

func (s *service) TopReviewers(ctx context.Context, limit int) ([]ReviewerResponse, error) {
	if limit <= 0 || limit > maxRankingLimit {
		limit = defaultTopLimit
	}
	rows, err := s.repo.TopReviewers(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "top reviewers")
	}
	if rows == nil {
		rows = []ReviewerResponse{}
	}
	return rows, nil
}

// KeywordSearch matches the keyword as a case-insensitive substring of
// visible review bodies. A blank keyword returns no matches.
func (s *service) KeywordSearch(ctx context.Context, productID uuid.UUID, keyword string) ([]SearchHit, error) {
	if err := s.checkProduct(ctx, productID); err != nil {
		return nil, err
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []SearchHit{}, nil
	}

	rows, err := s.repo.SearchVisible(ctx, productID, keyword)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "keyword search")
	}
	hits := make([]SearchHit, 0, len(rows))
	for i := range rows {
		hits = append(hits, SearchHit{
			ReviewID:  rows[i].ID,
			AuthorID:  rows[i].AuthorID,
			Rating:    rows[i].Rating,
			Body:      rows[i].Body,
			CreatedAt: rows[i].CreatedAt,
		})
	}
	return hits, nil
}

func (s *service) TopRatedProducts(ctx context.Context, windowDays, limit int) ([]TopProductResponse, error) {
	windowDays = s.normalizeWindow(windowDays)
	if limit <= 0 || limit > maxRankingLimit {
		limit = topRatedSpanLimit
	}

	since := s.now().AddDate(0, 0, -windowDays)
	rows, err := s.repo.TopRatedProducts(ctx, since, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "top rated products")
	}
	for i := range rows {
		rows[i].AverageRating = round2(rows[i].AverageRating)
	}
	if rows == nil {
		rows = []TopProductResponse{}
	}
	return rows, nil
}

func (s *service) checkProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return nil
}

func (s *service) normalizeWindow(windowDays int) int {
	if windowDays > 0 {
		return windowDays
	}
	if s.cfg.TrendWindowDays > 0 {
		return s.cfg.TrendWindowDays
	}
	return 30
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
