package products

import (
	"context"
	"testing"
	"time"

	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	pkgerrors "github.com/batoolr/reviewhub-backend/pkg/errors"
	"github.com/batoolr/reviewhub-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRepo struct {
	products  map[uuid.UUID]*models.Product
	summaries map[uuid.UUID]RatingSummary
	deleted   []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products:  map[uuid.UUID]*models.Product{},
		summaries: map[uuid.UUID]RatingSummary{},
	}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, product *models.Product) error {
	product.ID = uuid.New()
	product.CreatedAt = time.Now().UTC()
	f.products[product.ID] = product
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := f.products[id]; ok {
		copied := *product
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) List(ctx context.Context, params listProductsParams) ([]models.Product, *pagination.Cursor, error) {
	rows := make([]models.Product, 0, len(f.products))
	for _, product := range f.products {
		rows = append(rows, *product)
	}
	return rows, nil, nil
}

func (f *fakeRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	for _, product := range f.products {
		if product.OwnerID == ownerID {
			rows = append(rows, *product)
		}
	}
	return rows, nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	product, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := fields["name"].(string); ok {
		product.Name = name
	}
	if description, ok := fields["description"].(string); ok {
		product.Description = description
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.products, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) RatingSummary(ctx context.Context, id uuid.UUID) (RatingSummary, error) {
	return f.summaries[id], nil
}

func TestCreateRequiresName(t *testing.T) {
	svc, _ := NewService(newFakeRepo())
	_, err := svc.Create(context.Background(), uuid.New(), CreateProductRequest{Name: "   "})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateAssignsOwner(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := NewService(repo)
	owner := uuid.New()

	resp, err := svc.Create(context.Background(), owner, CreateProductRequest{Name: "Gadget"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.OwnerID != owner {
		t.Fatalf("expected owner %s, got %s", owner, resp.OwnerID)
	}
	if len(repo.products) != 1 {
		t.Fatalf("expected 1 stored product, got %d", len(repo.products))
	}
}

func TestUpdateForbiddenForNonOwner(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := NewService(repo)
	owner := uuid.New()

	resp, err := svc.Create(context.Background(), owner, CreateProductRequest{Name: "Gadget"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Renamed"
	_, err = svc.Update(context.Background(), uuid.New(), resp.ID, UpdateProductRequest{Name: &name})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestUpdateByOwner(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := NewService(repo)
	owner := uuid.New()

	resp, err := svc.Create(context.Background(), owner, CreateProductRequest{Name: "Gadget"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Renamed"
	updated, err := svc.Update(context.Background(), owner, resp.ID, UpdateProductRequest{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("expected renamed product, got %q", updated.Name)
	}
}

func TestDeleteForbiddenForNonOwner(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := NewService(repo)
	owner := uuid.New()

	resp, err := svc.Create(context.Background(), owner, CreateProductRequest{Name: "Gadget"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.Delete(context.Background(), uuid.New(), resp.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
	if len(repo.deleted) != 0 {
		t.Fatal("expected no deletion")
	}
}

func TestGetUnknownProduct(t *testing.T) {
	svc, _ := NewService(newFakeRepo())
	_, err := svc.Get(context.Background(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestRatingsReturnsSummary(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := NewService(repo)
	owner := uuid.New()

	resp, err := svc.Create(context.Background(), owner, CreateProductRequest{Name: "Gadget"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.summaries[resp.ID] = RatingSummary{ProductID: resp.ID, AverageRating: 4.5, ReviewCount: 2}

	summary, err := svc.Ratings(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("ratings: %v", err)
	}
	if summary.AverageRating != 4.5 || summary.ReviewCount != 2 {
		t.Fatalf("unexpected summary %+v", summary)
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
