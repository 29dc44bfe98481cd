package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/SoiBeTiiii/datn-sub000/api/routes"
	cartsvc "github.com/SoiBeTiiii/datn-sub000/internal/cart"
	"github.com/SoiBeTiiii/datn-sub000/internal/catalog"
	"github.com/SoiBeTiiii/datn-sub000/internal/promotions"
	"github.com/SoiBeTiiii/datn-sub000/internal/session"
	"github.com/SoiBeTiiii/datn-sub000/internal/wishlist"
	"github.com/SoiBeTiiii/datn-sub000/pkg/config"
	"github.com/SoiBeTiiii/datn-sub000/pkg/logger"
	"github.com/SoiBeTiiii/datn-sub000/pkg/metrics"
	"github.com/SoiBeTiiii/datn-sub000/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

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

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	sessionMetrics := metrics.NewSessionMetrics(promRegistry)

	promoClient, err := promotions.NewClient(cfg.Backend)
	if err != nil {
		logg.Error(context.Background(), "failed to create promotions client", err)
		os.Exit(1)
	}
	catalogClient, err := catalog.NewClient(cfg.Backend)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog client", err)
		os.Exit(1)
	}
	wishlistBackend, err := wishlist.NewHTTPBackend(cfg.Backend)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist backend client", err)
		os.Exit(1)
	}

	cartSnapshots, err := cartsvc.NewRedisSnapshots(redisClient, cfg.Session.CartSnapshotTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart snapshot store", err)
		os.Exit(1)
	}
	wishlistSnapshots, err := wishlist.NewRedisSnapshots(redisClient, cfg.Session.WishlistSnapshotTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist snapshot store", err)
		os.Exit(1)
	}

	sessionRegistry, err := session.NewRegistry(session.RegistryParams{
		Promotions: promoClient,
		Variants:   catalogClient,
		Snapshots:  cartSnapshots,
		Logger:     logg,
		Metrics:    sessionMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session registry", err)
		os.Exit(1)
	}

	wishlistCache, err := wishlist.NewCache(wishlist.CacheParams{
		Backend:   wishlistBackend,
		Snapshots: wishlistSnapshots,
		Logger:    logg,
		Metrics:   sessionMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist cache", err)
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
	logg.Info(ctx, "starting storefront api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, sessionRegistry, wishlistCache, promRegistry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
