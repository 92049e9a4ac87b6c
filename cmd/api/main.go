package main

import (
	"context"
	"net/http"
	"os"

	"github.com/batoolr/reviewhub-backend/api/routes"
	"github.com/batoolr/reviewhub-backend/internal/analytics"
	"github.com/batoolr/reviewhub-backend/internal/auth"
	"github.com/batoolr/reviewhub-backend/internal/exports"
	"github.com/batoolr/reviewhub-backend/internal/interactions"
	"github.com/batoolr/reviewhub-backend/internal/moderation"
	"github.com/batoolr/reviewhub-backend/internal/notifications"
	"github.com/batoolr/reviewhub-backend/internal/products"
	"github.com/batoolr/reviewhub-backend/internal/reviews"
	"github.com/batoolr/reviewhub-backend/internal/users"
	"github.com/batoolr/reviewhub-backend/pkg/config"
	"github.com/batoolr/reviewhub-backend/pkg/db"
	"github.com/batoolr/reviewhub-backend/pkg/logger"
	"github.com/batoolr/reviewhub-backend/pkg/metrics"
	"github.com/batoolr/reviewhub-backend/pkg/migrate"
	"github.com/batoolr/reviewhub-backend/pkg/redis"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	svcs, err := buildServices(dbClient, cfg)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, httpMetrics, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(dbClient *db.Client, cfg *config.Config) (routes.Services, error) {
	gormDB := dbClient.DB()

	userRepo := users.NewRepository(gormDB)
	productRepo := products.NewRepository(gormDB)
	reviewRepo := reviews.NewRepository(gormDB)
	interactionRepo := interactions.NewRepository(gormDB)
	notificationRepo := notifications.NewRepository(gormDB)
	moderationRepo := moderation.NewRepository(gormDB)
	analyticsRepo := analytics.NewRepository(gormDB)
	exportsRepo := exports.NewRepository(gormDB)

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  userRepo,
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		return routes.Services{}, err
	}
	productService, err := products.NewService(productRepo)
	if err != nil {
		return routes.Services{}, err
	}
	reviewService, err := reviews.NewService(reviews.ServiceParams{
		Repo:     reviewRepo,
		Products: productRepo,
	})
	if err != nil {
		return routes.Services{}, err
	}
	interactionService, err := interactions.NewService(interactions.ServiceParams{
		Tx:            dbClient,
		Repo:          interactionRepo,
		Reviews:       reviewRepo,
		Notifications: notificationRepo,
	})
	if err != nil {
		return routes.Services{}, err
	}
	notificationService, err := notifications.NewService(notificationRepo)
	if err != nil {
		return routes.Services{}, err
	}
	moderationService, err := moderation.NewService(moderation.ServiceParams{
		Tx:            dbClient,
		Reviews:       reviewRepo,
		Repo:          moderationRepo,
		Notifications: notificationRepo,
		Config:        cfg.Moderation,
	})
	if err != nil {
		return routes.Services{}, err
	}
	analyticsService, err := analytics.NewService(analytics.ServiceParams{
		Repo:     analyticsRepo,
		Products: productRepo,
		Config:   cfg.Moderation,
	})
	if err != nil {
		return routes.Services{}, err
	}
	exportService, err := exports.NewService(exports.ServiceParams{
		Repo:   exportsRepo,
		Config: cfg.Moderation,
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:          authService,
		Register:      registerService,
		Products:      productService,
		Reviews:       reviewService,
		Interactions:  interactionService,
		Notifications: notificationService,
		Moderation:    moderationService,
		Analytics:     analyticsService,
		Exports:       exportService,
	}, nil
}
