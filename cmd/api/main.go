package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/nuthub-il/nuthub-backend/api/controllers"
	"github.com/nuthub-il/nuthub-backend/api/routes"
	authsvc "github.com/nuthub-il/nuthub-backend/internal/auth"
	"github.com/nuthub-il/nuthub-backend/internal/catalog"
	ordersvc "github.com/nuthub-il/nuthub-backend/internal/orders"
	uploadsvc "github.com/nuthub-il/nuthub-backend/internal/uploads"
	"github.com/nuthub-il/nuthub-backend/pkg/config"
	"github.com/nuthub-il/nuthub-backend/pkg/db"
	"github.com/nuthub-il/nuthub-backend/pkg/env"
	"github.com/nuthub-il/nuthub-backend/pkg/hypay"
	"github.com/nuthub-il/nuthub-backend/pkg/logger"
	"github.com/nuthub-il/nuthub-backend/pkg/metrics"
	"github.com/nuthub-il/nuthub-backend/pkg/migrate"
	"github.com/nuthub-il/nuthub-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	shippingFee, err := decimal.NewFromString(cfg.Orders.ShippingFee)
	if err != nil {
		logg.Error(context.Background(), "invalid shipping fee", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersService, err := ordersvc.NewService(
		ordersvc.NewRepository(dbClient.DB()),
		catalogRepo,
		dbClient,
		logg,
		shippingFee,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.NewRepository(dbClient.DB()), cfg.JWT, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	if !cfg.App.IsProd() {
		seedEmail := env.Get("NUTHUB_ADMIN_EMAIL", "")
		seedPassword := env.Get("NUTHUB_ADMIN_PASSWORD", "")
		if seedEmail != "" && seedPassword != "" {
			if err := authService.EnsureAdmin(context.Background(), seedEmail, seedPassword, env.Get("NUTHUB_ADMIN_NAME", "Admin")); err != nil {
				logg.Error(context.Background(), "failed to seed admin user", err)
				os.Exit(1)
			}
		}
	}

	uploadsService, err := uploadsvc.NewService(cfg.Uploads, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create uploads service", err)
		os.Exit(1)
	}

	hypayClient, err := hypay.NewClient(cfg.Hypay)
	if err != nil {
		// The storefront can run without payments; signing requests
		// will fail with a dependency error until creds are set.
		logg.Warn(context.Background(), "hypay client not configured: "+err.Error())
		hypayClient = nil
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

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
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Metrics:  httpMetrics,
			Gatherer: registry,
			Auth:     authService,
			Catalog:  catalogService,
			Orders:   ordersService,
			Uploads:  uploadsService,
			Hypay:    hypaySigner(hypayClient),
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// hypaySigner avoids handing the router a typed-nil interface when the
// client could not be configured.
func hypaySigner(client *hypay.Client) controllers.HypaySigner {
	if client == nil {
		return nil
	}
	return client
}
