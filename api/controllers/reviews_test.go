package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/batoolr/reviewhub-backend/api/middleware"
	reviewsvc "github.com/batoolr/reviewhub-backend/internal/reviews"
	"github.com/batoolr/reviewhub-backend/pkg/enums"
	"github.com/batoolr/reviewhub-backend/pkg/logger"
)

type testReviewsService struct {
	createFn func(ctx context.Context, productID, authorID uuid.UUID, req reviewsvc.CreateReviewRequest) (*reviewsvc.ReviewResponse, error)
	listFn   func(ctx context.Context, params reviewsvc.ListParams) (*reviewsvc.ListResult, error)
}

func (s *testReviewsService) Create(ctx context.Context, productID, authorID uuid.UUID, req reviewsvc.CreateReviewRequest) (*reviewsvc.ReviewResponse, error) {
	if s.createFn != nil {
		return s.createFn(ctx, productID, authorID, req)
	}
	return &reviewsvc.ReviewResponse{}, nil
}

func (s *testReviewsService) ListVisible(ctx context.Context, params reviewsvc.ListParams) (*reviewsvc.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &reviewsvc.ListResult{}, nil
}

func (s *testReviewsService) Update(ctx context.Context, requesterID, reviewID uuid.UUID, req reviewsvc.UpdateReviewRequest) (*reviewsvc.ReviewResponse, error) {
	return &reviewsvc.ReviewResponse{}, nil
}

func (s *testReviewsService) Delete(ctx context.Context, requesterID, reviewID uuid.UUID) error {
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateReviewSuccess(t *testing.T) {
	productID := uuid.New()
	authorID := uuid.New()
	called := false
	svc := &testReviewsService{
		createFn: func(ctx context.Context, pid, aid uuid.UUID, req reviewsvc.CreateReviewRequest) (*reviewsvc.ReviewResponse, error) {
			called = true
			if pid != productID {
				t.Fatalf("unexpected product %s", pid)
			}
			if aid != authorID {
				t.Fatalf("unexpected author %s", aid)
			}
			if req.Rating != 4 {
				t.Fatalf("unexpected rating %d", req.Rating)
			}
			return &reviewsvc.ReviewResponse{ID: uuid.New(), ProductID: pid, AuthorID: aid, Rating: req.Rating}, nil
		},
	}

	body := strings.NewReader(`{"rating":4,"body":"works well"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+productID.String()+"/reviews", body)
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), authorID.String()))
	req = withRouteParam(req, "productId", productID.String())

	resp := httptest.NewRecorder()
	CreateReview(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestCreateReviewMissingUser(t *testing.T) {
	productID := uuid.New()
	svc := &testReviewsService{}

	body := strings.NewReader(`{"rating":4,"body":"works well"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+productID.String()+"/reviews", body)
	req.Header.Set("Content-Type", "application/json")
	req = withRouteParam(req, "productId", productID.String())

	resp := httptest.NewRecorder()
	CreateReview(svc, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestCreateReviewRejectsUnknownFields(t *testing.T) {
	productID := uuid.New()
	svc := &testReviewsService{}

	body := strings.NewReader(`{"rating":4,"body":"ok","is_visible":true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+productID.String()+"/reviews", body)
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New().String()))
	req = withRouteParam(req, "productId", productID.String())

	resp := httptest.NewRecorder()
	CreateReview(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", resp.Code)
	}
}

func TestListProductReviewsParsesQuery(t *testing.T) {
	productID := uuid.New()
	svc := &testReviewsService{
		listFn: func(ctx context.Context, params reviewsvc.ListParams) (*reviewsvc.ListResult, error) {
			if params.ProductID != productID {
				t.Fatalf("unexpected product %s", params.ProductID)
			}
			if params.Rating == nil || *params.Rating != 5 {
				t.Fatalf("expected rating filter 5, got %v", params.Rating)
			}
			if params.Order != enums.ReviewOrderEngagement {
				t.Fatalf("expected engagement order, got %s", params.Order)
			}
			return &reviewsvc.ListResult{Items: []reviewsvc.ReviewResponse{}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID.String()+"/reviews?rating=5&order=engagement", nil)
	req = withRouteParam(req, "productId", productID.String())

	resp := httptest.NewRecorder()
	ListProductReviews(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data reviewsvc.ListResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
}

func TestListProductReviewsBadOrder(t *testing.T) {
	productID := uuid.New()
	svc := &testReviewsService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID.String()+"/reviews?order=random", nil)
	req = withRouteParam(req, "productId", productID.String())

	resp := httptest.NewRecorder()
	ListProductReviews(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
