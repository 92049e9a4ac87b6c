package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/batoolr/reviewhub-backend/api/middleware"
	moderationsvc "github.com/batoolr/reviewhub-backend/internal/moderation"
	"github.com/batoolr/reviewhub-backend/pkg/enums"
	pkgerrors "github.com/batoolr/reviewhub-backend/pkg/errors"
)

type testModerationService struct {
	approveFn      func(ctx context.Context, requesterID, reviewID uuid.UUID) (*moderationsvc.ActionResult, error)
	staffApproveFn func(ctx context.Context, requesterID uuid.UUID, role enums.UserRole, reviewID uuid.UUID) (*moderationsvc.ActionResult, error)
	listReportsFn  func(ctx context.Context, requesterID uuid.UUID, filters moderationsvc.ReportFilters) (*moderationsvc.ReportsResult, error)
}

func (s *testModerationService) Approve(ctx context.Context, requesterID, reviewID uuid.UUID) (*moderationsvc.ActionResult, error) {
	if s.approveFn != nil {
		return s.approveFn(ctx, requesterID, reviewID)
	}
	return &moderationsvc.ActionResult{}, nil
}

func (s *testModerationService) Reject(ctx context.Context, requesterID, reviewID uuid.UUID) (*moderationsvc.ActionResult, error) {
	return &moderationsvc.ActionResult{}, nil
}

func (s *testModerationService) Flag(ctx context.Context, requesterID, reviewID uuid.UUID) (*moderationsvc.ActionResult, error) {
	return &moderationsvc.ActionResult{}, nil
}

func (s *testModerationService) StaffApprove(ctx context.Context, requesterID uuid.UUID, role enums.UserRole, reviewID uuid.UUID) (*moderationsvc.ActionResult, error) {
	if s.staffApproveFn != nil {
		return s.staffApproveFn(ctx, requesterID, role, reviewID)
	}
	return &moderationsvc.ActionResult{}, nil
}

func (s *testModerationService) ListReports(ctx context.Context, requesterID uuid.UUID, filters moderationsvc.ReportFilters) (*moderationsvc.ReportsResult, error) {
	if s.listReportsFn != nil {
		return s.listReportsFn(ctx, requesterID, filters)
	}
	return &moderationsvc.ReportsResult{}, nil
}

func (s *testModerationService) Dashboard(ctx context.Context, requesterID uuid.UUID) (*moderationsvc.Dashboard, error) {
	return &moderationsvc.Dashboard{}, nil
}

func TestApproveReviewSuccess(t *testing.T) {
	ownerID := uuid.New()
	reviewID := uuid.New()
	svc := &testModerationService{
		approveFn: func(ctx context.Context, rid, revid uuid.UUID) (*moderationsvc.ActionResult, error) {
			if rid != ownerID || revid != reviewID {
				t.Fatalf("unexpected args %s %s", rid, revid)
			}
			return &moderationsvc.ActionResult{ReviewID: revid, IsVisible: true, Changed: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reviews/"+reviewID.String()+"/approve", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), ownerID.String()))
	req = withRouteParam(req, "reviewId", reviewID.String())

	resp := httptest.NewRecorder()
	ApproveReview(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data moderationsvc.ActionResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data.Changed {
		t.Fatal("expected changed result")
	}
}

func TestApproveReviewForbidden(t *testing.T) {
	reviewID := uuid.New()
	svc := &testModerationService{
		approveFn: func(ctx context.Context, rid, revid uuid.UUID) (*moderationsvc.ActionResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the product owner can moderate this review")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reviews/"+reviewID.String()+"/approve", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New().String()))
	req = withRouteParam(req, "reviewId", reviewID.String())

	resp := httptest.NewRecorder()
	ApproveReview(svc, testLogger())(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestStaffApprovePassesRole(t *testing.T) {
	ownerID := uuid.New()
	reviewID := uuid.New()
	svc := &testModerationService{
		staffApproveFn: func(ctx context.Context, rid uuid.UUID, role enums.UserRole, revid uuid.UUID) (*moderationsvc.ActionResult, error) {
			if role != enums.UserRoleStaff {
				t.Fatalf("expected staff role, got %s", role)
			}
			return &moderationsvc.ActionResult{ReviewID: revid, IsVisible: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/staff/reviews/"+reviewID.String()+"/approve", nil)
	ctx := middleware.WithUserID(req.Context(), ownerID.String())
	ctx = middleware.WithRole(ctx, string(enums.UserRoleStaff))
	req = req.WithContext(ctx)
	req = withRouteParam(req, "reviewId", reviewID.String())

	resp := httptest.NewRecorder()
	StaffApproveReview(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminReportsParsesFilters(t *testing.T) {
	ownerID := uuid.New()
	productID := uuid.New()
	svc := &testModerationService{
		listReportsFn: func(ctx context.Context, rid uuid.UUID, filters moderationsvc.ReportFilters) (*moderationsvc.ReportsResult, error) {
			if filters.ProductID == nil || *filters.ProductID != productID {
				t.Fatalf("expected product filter, got %v", filters.ProductID)
			}
			if filters.Rating == nil || *filters.Rating != 2 {
				t.Fatalf("expected rating filter 2, got %v", filters.Rating)
			}
			if filters.Category == nil || *filters.Category != enums.ReportCategoryLowRated {
				t.Fatalf("expected low_rated category, got %v", filters.Category)
			}
			if filters.From == nil || filters.To == nil {
				t.Fatal("expected date range")
			}
			return &moderationsvc.ReportsResult{}, nil
		},
	}

	target := "/api/v1/admin/reports?product_id=" + productID.String() +
		"&rating=2&category=low_rated&from=2026-01-01&to=2026-02-01"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), ownerID.String()))

	resp := httptest.NewRecorder()
	AdminReports(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminReportsBadCategory(t *testing.T) {
	svc := &testModerationService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports?category=bogus", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New().String()))

	resp := httptest.NewRecorder()
	AdminReports(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
