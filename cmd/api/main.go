package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/refaccionariaweb/storefront-backend/api/routes"
	authsvc "github.com/refaccionariaweb/storefront-backend/internal/auth"
	"github.com/refaccionariaweb/storefront-backend/internal/cart"
	"github.com/refaccionariaweb/storefront-backend/internal/catalog"
	"github.com/refaccionariaweb/storefront-backend/internal/users"
	"github.com/refaccionariaweb/storefront-backend/pkg/auth/session"
	"github.com/refaccionariaweb/storefront-backend/pkg/config"
	"github.com/refaccionariaweb/storefront-backend/pkg/db"
	"github.com/refaccionariaweb/storefront-backend/pkg/logger"
	"github.com/refaccionariaweb/storefront-backend/pkg/metrics"
	"github.com/refaccionariaweb/storefront-backend/pkg/migrate"
	"github.com/refaccionariaweb/storefront-backend/pkg/pubsub"
	"github.com/refaccionariaweb/storefront-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	var inventoryEvents *catalog.InventoryEvents
	if cfg.PubSub.Enabled() {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		inventoryEvents = catalog.NewInventoryEvents(pubsubClient.InventoryPublisher(), logg)
	} else {
		logg.Warn(context.Background(), "inventory topic not configured, events disabled")
		inventoryEvents = catalog.NewInventoryEvents(nil, logg)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), inventoryEvents, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewStore(redisClient, redisClient, cfg.Cart.IdleTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	reconciler, err := cart.NewReconciler(catalogService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart reconciler", err)
		os.Exit(1)
	}
	mutator, err := cart.NewMutator(catalogService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart mutator", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartStore, reconciler, mutator, logg, metrics.NewCartMetrics(prometheus.DefaultRegisterer))
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			authService,
			catalogService,
			cartService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
