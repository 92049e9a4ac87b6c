package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	"github.com/batoolr/reviewhub-backend/pkg/enums"
	pkgerrors "github.com/batoolr/reviewhub-backend/pkg/errors"
	"github.com/batoolr/reviewhub-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeReviewRepo struct {
	reviews map[uuid.UUID]*models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[uuid.UUID]*models.Review{}}
}

func (f *fakeReviewRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeReviewRepo) Create(ctx context.Context, review *models.Review) error {
	review.ID = uuid.New()
	review.CreatedAt = time.Now().UTC()
	f.reviews[review.ID] = review
	return nil
}

func (f *fakeReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	if review, ok := f.reviews[id]; ok {
		copied := *review
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReviewRepo) FindByIDWithProduct(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeReviewRepo) ListVisible(ctx context.Context, params ListVisibleQuery) ([]models.Review, *pagination.Cursor, error) {
	var rows []models.Review
	for _, review := range f.reviews {
		if review.ProductID != params.ProductID || !review.IsVisible {
			continue
		}
		if params.Rating != nil && review.Rating != *params.Rating {
			continue
		}
		rows = append(rows, *review)
	}
	return rows, nil, nil
}

func (f *fakeReviewRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	review, ok := f.reviews[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if rating, ok := fields["rating"].(int); ok {
		review.Rating = rating
	}
	if body, ok := fields["body"].(string); ok {
		review.Body = body
	}
	return nil
}

func (f *fakeReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	review, ok := f.reviews[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	review.IsVisible = visible
	return nil
}

type fakeProductFinder struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeProductFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := f.products[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newService(t *testing.T) (Service, *fakeReviewRepo, uuid.UUID) {
	t.Helper()
	repo := newFakeReviewRepo()
	productID := uuid.New()
	finder := &fakeProductFinder{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, OwnerID: uuid.New(), Name: "Gadget"},
	}}
	svc, err := NewService(ServiceParams{Repo: repo, Products: finder})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, productID
}

func TestCreateStartsHidden(t *testing.T) {
	svc, repo, productID := newService(t)

	resp, err := svc.Create(context.Background(), productID, uuid.New(), CreateReviewRequest{Rating: 5, Body: "great"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.IsVisible {
		t.Fatal("new reviews must start hidden")
	}
	if stored := repo.reviews[resp.ID]; stored.IsVisible {
		t.Fatal("stored review must be hidden")
	}
}

func TestCreateRejectsUnknownProduct(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateReviewRequest{Rating: 3, Body: "ok"})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestCreateRejectsOutOfRangeRating(t *testing.T) {
	svc, _, productID := newService(t)
	_, err := svc.Create(context.Background(), productID, uuid.New(), CreateReviewRequest{Rating: 6, Body: "ok"})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestListVisibleSkipsHidden(t *testing.T) {
	svc, repo, productID := newService(t)

	first, err := svc.Create(context.Background(), productID, uuid.New(), CreateReviewRequest{Rating: 5, Body: "great"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), productID, uuid.New(), CreateReviewRequest{Rating: 2, Body: "meh"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.reviews[first.ID].IsVisible = true

	result, err := svc.ListVisible(context.Background(), ListParams{ProductID: productID, Order: enums.ReviewOrderCreated})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 visible review, got %d", len(result.Items))
	}
	if result.Items[0].ID != first.ID {
		t.Fatalf("unexpected review %s", result.Items[0].ID)
	}
}

func TestListVisibleRatingFilter(t *testing.T) {
	svc, repo, productID := newService(t)

	low, _ := svc.Create(context.Background(), productID, uuid.New(), CreateReviewRequest{Rating: 2, Body: "meh"})
	high, _ := svc.Create(context.Background(), productID, uuid.New(), CreateReviewRequest{Rating: 5, Body: "great"})
	repo.reviews[low.ID].IsVisible = true
	repo.reviews[high.ID].IsVisible = true

	rating := 2
	result, err := svc.ListVisible(context.Background(), ListParams{ProductID: productID, Rating: &rating})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].Rating != 2 {
		t.Fatalf("unexpected filter result %+v", result.Items)
	}
}

func TestUpdateOnlyByAuthor(t *testing.T) {
	svc, _, productID := newService(t)
	author := uuid.New()

	resp, err := svc.Create(context.Background(), productID, author, CreateReviewRequest{Rating: 4, Body: "solid"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	body := "edited"
	_, err = svc.Update(context.Background(), uuid.New(), resp.ID, UpdateReviewRequest{Body: &body})
	assertCode(t, err, pkgerrors.CodeForbidden)

	updated, err := svc.Update(context.Background(), author, resp.ID, UpdateReviewRequest{Body: &body})
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if updated.Body != "edited" {
		t.Fatalf("expected edited body, got %q", updated.Body)
	}
}

func TestUpdatePreservesVisibility(t *testing.T) {
	svc, repo, productID := newService(t)
	author := uuid.New()

	resp, err := svc.Create(context.Background(), productID, author, CreateReviewRequest{Rating: 4, Body: "solid"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.reviews[resp.ID].IsVisible = true

	body := "still solid"
	updated, err := svc.Update(context.Background(), author, resp.ID, UpdateReviewRequest{Body: &body})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsVisible {
		t.Fatal("author edits must not change visibility")
	}
	if !repo.reviews[resp.ID].IsVisible {
		t.Fatal("stored review must stay visible after an edit")
	}
}

func TestDeleteOnlyByAuthor(t *testing.T) {
	svc, repo, productID := newService(t)
	author := uuid.New()

	resp, err := svc.Create(context.Background(), productID, author, CreateReviewRequest{Rating: 4, Body: "solid"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.Delete(context.Background(), uuid.New(), resp.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)

	if err := svc.Delete(context.Background(), author, resp.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if _, ok := repo.reviews[resp.ID]; ok {
		t.Fatal("review should be removed")
	}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s", code, typed.Code())
	}
}
