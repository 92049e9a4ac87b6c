package exports

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/batoolr/reviewhub-backend/pkg/config"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type fakeExportsRepo struct {
	stats  []ProductStats
	bodies []ProductBody
}

func (f *fakeExportsRepo) ProductStats(ctx context.Context, lowRatingMax int) ([]ProductStats, error) {
	return f.stats, nil
}

func (f *fakeExportsRepo) VisibleBodies(ctx context.Context) ([]ProductBody, error) {
	return f.bodies, nil
}

func newExportFixture(t *testing.T) (Service, *fakeExportsRepo, uuid.UUID) {
	t.Helper()
	productID := uuid.New()
	repo := &fakeExportsRepo{
		stats: []ProductStats{
			{
				ProductID:     productID,
				Name:          "Widget",
				AverageRating: 4.333333,
				ReviewCount:   3,
				LowRatedCount: 1,
				PendingCount:  2,
			},
		},
		bodies: []ProductBody{
			{ProductID: productID, Body: "great quality and great battery"},
			{ProductID: productID, Body: "quality holds up"},
		},
	}
	svc, err := NewService(ServiceParams{
		Repo:   repo,
		Config: config.ModerationConfig{LowRatingMax: 2},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, productID
}

func TestWriteCSVSnapshot(t *testing.T) {
	svc, _, productID := newExportFixture(t)

	var buf bytes.Buffer
	if err := svc.WriteCSV(context.Background(), &buf); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 row, got %d", len(rows))
	}
	header := strings.Join(rows[0], ",")
	if header != "product_id,name,average_rating,review_count" {
		t.Fatalf("unexpected header %q", header)
	}
	if rows[1][0] != productID.String() {
		t.Fatalf("expected product id %s, got %s", productID, rows[1][0])
	}
	if rows[1][2] != "4.33" {
		t.Fatalf("expected rounded rating 4.33, got %s", rows[1][2])
	}
	if rows[1][3] != "3" {
		t.Fatalf("expected review count 3, got %s", rows[1][3])
	}
}

func TestWriteCSVEmptyCatalog(t *testing.T) {
	svc, repo, _ := newExportFixture(t)
	repo.stats = nil

	var buf bytes.Buffer
	if err := svc.WriteCSV(context.Background(), &buf); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}

func TestWriteXLSXSheets(t *testing.T) {
	svc, _, productID := newExportFixture(t)

	var buf bytes.Buffer
	if err := svc.WriteXLSX(context.Background(), &buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	file, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer file.Close()

	products, err := file.GetRows(productSheet)
	if err != nil {
		t.Fatalf("read product sheet: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected header plus 1 product row, got %d", len(products))
	}
	if products[1][0] != productID.String() {
		t.Fatalf("expected product id %s, got %s", productID, products[1][0])
	}

	health, err := file.GetRows(healthSheet)
	if err != nil {
		t.Fatalf("read health sheet: %v", err)
	}
	if len(health) != 2 {
		t.Fatalf("expected header plus 1 health row, got %d", len(health))
	}
	if !strings.Contains(health[1][2], "quality") {
		t.Fatalf("expected common words to include quality, got %q", health[1][2])
	}
	if health[1][3] != "1" || health[1][4] != "2" {
		t.Fatalf("unexpected health counts %v", health[1])
	}
}
