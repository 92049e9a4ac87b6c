package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/batoolr/reviewhub-backend/api/controllers"
	"github.com/batoolr/reviewhub-backend/api/middleware"
	"github.com/batoolr/reviewhub-backend/internal/analytics"
	"github.com/batoolr/reviewhub-backend/internal/auth"
	"github.com/batoolr/reviewhub-backend/internal/exports"
	"github.com/batoolr/reviewhub-backend/internal/interactions"
	"github.com/batoolr/reviewhub-backend/internal/moderation"
	"github.com/batoolr/reviewhub-backend/internal/notifications"
	"github.com/batoolr/reviewhub-backend/internal/products"
	"github.com/batoolr/reviewhub-backend/internal/reviews"
	"github.com/batoolr/reviewhub-backend/pkg/config"
	"github.com/batoolr/reviewhub-backend/pkg/enums"
	"github.com/batoolr/reviewhub-backend/pkg/logger"
	"github.com/batoolr/reviewhub-backend/pkg/metrics"
	"github.com/batoolr/reviewhub-backend/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth          auth.Service
	Register      auth.RegisterService
	Products      products.Service
	Reviews       reviews.Service
	Interactions  interactions.Service
	Notifications notifications.Service
	Moderation    moderation.Service
	Analytics     analytics.Service
	Exports       exports.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginNameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterNameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})
	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.Register(svcs.Register, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).Post("/logout", controllers.Logout())
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(svcs.Products, logg))
		r.Get("/{productId}", controllers.GetProduct(svcs.Products, logg))
		r.Get("/{productId}/reviews", controllers.ListProductReviews(svcs.Reviews, logg))
		r.Get("/{productId}/ratings", controllers.ProductRatings(svcs.Products, logg))
		r.Get("/{productId}/top-review", controllers.TopReview(svcs.Interactions, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(svcs.Products, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(svcs.Products, logg))
			r.Post("/{productId}/reviews", controllers.CreateReview(svcs.Reviews, logg))
			r.Patch("/{productId}/reviews/{reviewId}", controllers.UpdateReview(svcs.Reviews, logg))
			r.Delete("/{productId}/reviews/{reviewId}", controllers.DeleteReview(svcs.Reviews, logg))
			r.Post("/{productId}/reviews/{reviewId}/approve", controllers.ApproveReview(svcs.Moderation, logg))
		})
	})

	r.Route("/api/v1/review-interactions", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Post("/", controllers.RecordInteraction(svcs.Interactions, logg))
		r.Get("/", controllers.ListMyInteractions(svcs.Interactions, logg))
		r.Patch("/{interactionId}", controllers.UpdateInteraction(svcs.Interactions, logg))
		r.Delete("/{interactionId}", controllers.DeleteInteraction(svcs.Interactions, logg))
		r.Get("/review/{reviewId}/stats", controllers.InteractionStats(svcs.Interactions, logg))
	})

	r.Route("/api/v1/notifications", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
		r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
		r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/reports", controllers.AdminReports(svcs.Moderation, logg))
		r.Get("/dashboard", controllers.AdminDashboard(svcs.Moderation, logg))
		r.Post("/reviews/{reviewId}/approve", controllers.ApproveReview(svcs.Moderation, logg))
		r.Post("/reviews/{reviewId}/reject", controllers.RejectReview(svcs.Moderation, logg))
		r.Post("/reviews/{reviewId}/flag", controllers.FlagReview(svcs.Moderation, logg))
	})

	r.Route("/api/v1/staff", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleStaff), logg))
		r.Post("/reviews/{reviewId}/approve", controllers.StaffApproveReview(svcs.Moderation, logg))
	})

	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/products/{productId}/trend", controllers.RatingTrend(svcs.Analytics, logg))
		r.Get("/products/{productId}/common-words", controllers.CommonWords(svcs.Analytics, logg))
		r.Get("/products/{productId}/search", controllers.KeywordSearch(svcs.Analytics, logg))
		r.Get("/top-reviewers", controllers.TopReviewers(svcs.Analytics, logg))
		r.Get("/top-rated", controllers.TopRatedProducts(svcs.Analytics, logg))
		r.Get("/exports/reviews.csv", controllers.ExportReviewsCSV(svcs.Exports, logg))
		r.Get("/exports/reviews.xlsx", controllers.ExportReviewsXLSX(svcs.Exports, logg))
	})

	return r
}
