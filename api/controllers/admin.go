package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/batoolr/reviewhub-backend/api/middleware"
	"github.com/batoolr/reviewhub-backend/api/responses"
	"github.com/batoolr/reviewhub-backend/api/validators"
	moderationsvc "github.com/batoolr/reviewhub-backend/internal/moderation"
	"github.com/batoolr/reviewhub-backend/pkg/enums"
	pkgerrors "github.com/batoolr/reviewhub-backend/pkg/errors"
	"github.com/batoolr/reviewhub-backend/pkg/logger"
)

// ApproveReview publishes a pending review for the product owner.
func ApproveReview(svc moderationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return moderationAction(svc, logg, func(r *http.Request, userID, reviewID uuid.UUID) (*moderationsvc.ActionResult, error) {
		return svc.Approve(r.Context(), userID, reviewID)
	})
}

// RejectReview hides a review and records a rejected report.
func RejectReview(svc moderationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return moderationAction(svc, logg, func(r *http.Request, userID, reviewID uuid.UUID) (*moderationsvc.ActionResult, error) {
		return svc.Reject(r.Context(), userID, reviewID)
	})
}

// FlagReview records a pending report without changing visibility.
func FlagReview(svc moderationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return moderationAction(svc, logg, func(r *http.Request, userID, reviewID uuid.UUID) (*moderationsvc.ActionResult, error) {
		return svc.Flag(r.Context(), userID, reviewID)
	})
}

// StaffApproveReview is the staff approval surface.
func StaffApproveReview(svc moderationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return moderationAction(svc, logg, func(r *http.Request, userID, reviewID uuid.UUID) (*moderationsvc.ActionResult, error) {
		role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "unknown role")
		}
		return svc.StaffApprove(r.Context(), userID, role, reviewID)
	})
}

func moderationAction(svc moderationsvc.Service, logg *logger.Logger, action func(r *http.Request, userID, reviewID uuid.UUID) (*moderationsvc.ActionResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "moderation service unavailable"))
			return
		}

		userID, err := requesterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reviewID, err := pathUUID(r, "reviewId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := action(r, userID, reviewID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminReports lists the requester's reviews with moderation categories.
func AdminReports(svc moderationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "moderation service unavailable"))
			return
		}

		userID, err := requesterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseReportFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListReports(r.Context(), userID, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminDashboard returns the moderation overview for the requester's catalog.
func AdminDashboard(svc moderationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "moderation service unavailable"))
			return
		}

		userID, err := requesterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dashboard, err := svc.Dashboard(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}

func parseReportFilters(r *http.Request) (moderationsvc.ReportFilters, error) {
	var filters moderationsvc.ReportFilters

	if raw := strings.TrimSpace(r.URL.Query().Get("product_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product_id")
		}
		filters.ProductID = &id
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("rating")); raw != "" {
		rating, err := validators.ParseQueryInt(r, "rating", 0, 1, 5)
		if err != nil {
			return filters, err
		}
		filters.Rating = &rating
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		from, err := parseReportTime(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid from date")
		}
		filters.From = &from
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		to, err := parseReportTime(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid to date")
		}
		filters.To = &to
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		category, err := enums.ParseReportCategory(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		filters.Category = &category
	}

	return filters, nil
}

func parseReportTime(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}
