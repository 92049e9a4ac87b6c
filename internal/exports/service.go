package exports

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/batoolr/reviewhub-backend/pkg/config"
	pkgerrors "github.com/batoolr/reviewhub-backend/pkg/errors"
	"github.com/batoolr/reviewhub-backend/pkg/textscan"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	commonWordMinLen = 4
	commonWordLimit  = 5

	productSheet = "Products"
	healthSheet  = "Review Health"
)

// Service renders catalog review snapshots as CSV or XLSX.
type Service interface {
	WriteCSV(ctx context.Context, w io.Writer) error
	WriteXLSX(ctx context.Context, w io.Writer) error
}

type service struct {
	repo Repository
	cfg  config.ModerationConfig
}

// ServiceParams bundles the export service dependencies.
type ServiceParams struct {
	Repo   Repository
	Config config.ModerationConfig
}

// NewService wires the export dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "exports repository required")
	}
	return &service{repo: params.Repo, cfg: params.Config}, nil
}

// WriteCSV streams the product snapshot: one row per product with its
// visible-review aggregates.
func (s *service) WriteCSV(ctx context.Context, w io.Writer) error {
	stats, err := s.repo.ProductStats(ctx, s.cfg.LowRatingMax)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product stats")
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"product_id", "name", "average_rating", "review_count"}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv header")
	}
	for i := range stats {
		row := []string{
			stats[i].ProductID.String(),
			stats[i].Name,
			formatRating(stats[i].AverageRating),
			strconv.FormatInt(stats[i].ReviewCount, 10),
		}
		if err := writer.Write(row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush csv")
	}
	return nil
}

// WriteXLSX renders two sheets: the product snapshot and a review health
// sheet with common words, low-rated counts and pending counts.
func (s *service) WriteXLSX(ctx context.Context, w io.Writer) error {
	stats, err := s.repo.ProductStats(ctx, s.cfg.LowRatingMax)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product stats")
	}
	bodies, err := s.repo.VisibleBodies(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review bodies")
	}
	words := commonWordsByProduct(bodies)

	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), productSheet); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rename sheet")
	}
	if _, err := file.NewSheet(healthSheet); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create health sheet")
	}

	if err := file.SetSheetRow(productSheet, "A1", &[]any{"product_id", "name", "average_rating", "review_count"}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write product header")
	}
	if err := file.SetSheetRow(healthSheet, "A1", &[]any{"product_id", "name", "common_words", "low_rated_count", "pending_count"}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write health header")
	}

	for i := range stats {
		stat := &stats[i]
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cell name")
		}
		productRow := []any{stat.ProductID.String(), stat.Name, round2(stat.AverageRating), stat.ReviewCount}
		if err := file.SetSheetRow(productSheet, cell, &productRow); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write product row")
		}
		healthRow := []any{
			stat.ProductID.String(),
			stat.Name,
			strings.Join(words[stat.ProductID], ", "),
			stat.LowRatedCount,
			stat.PendingCount,
		}
		if err := file.SetSheetRow(healthSheet, cell, &healthRow); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write health row")
		}
	}

	if err := file.Write(w); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write workbook")
	}
	return nil
}

func commonWordsByProduct(bodies []ProductBody) map[uuid.UUID][]string {
	grouped := map[uuid.UUID][]string{}
	for _, body := range bodies {
		grouped[body.ProductID] = append(grouped[body.ProductID], body.Body)
	}

	words := make(map[uuid.UUID][]string, len(grouped))
	for productID, texts := range grouped {
		counts := textscan.TopWords(texts, commonWordMinLen, commonWordLimit)
		top := make([]string, 0, len(counts))
		for _, wc := range counts {
			top = append(top, wc.Word)
		}
		words[productID] = top
	}
	return words
}

func formatRating(value float64) string {
	return strconv.FormatFloat(round2(value), 'f', 2, 64)
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
