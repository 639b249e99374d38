package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/flourhouse/bakery-backend/api/routes"
	authsvc "github.com/flourhouse/bakery-backend/internal/auth"
	"github.com/flourhouse/bakery-backend/internal/cart"
	"github.com/flourhouse/bakery-backend/internal/catalog"
	checkoutsvc "github.com/flourhouse/bakery-backend/internal/checkout"
	"github.com/flourhouse/bakery-backend/internal/orders"
	"github.com/flourhouse/bakery-backend/internal/products"
	"github.com/flourhouse/bakery-backend/internal/reviews"
	"github.com/flourhouse/bakery-backend/internal/users"
	"github.com/flourhouse/bakery-backend/pkg/config"
	"github.com/flourhouse/bakery-backend/pkg/db"
	"github.com/flourhouse/bakery-backend/pkg/logger"
	"github.com/flourhouse/bakery-backend/pkg/metrics"
	"github.com/flourhouse/bakery-backend/pkg/migrate"
	"github.com/flourhouse/bakery-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	usersRepo := users.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	authService, err := authsvc.NewService(usersRepo, cfg.JWT, cfg.Password)
	exitOnError(logg, "auth service", err)

	usersService, err := users.NewService(usersRepo, cfg.Password)
	exitOnError(logg, "users service", err)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	exitOnError(logg, "catalog service", err)

	productsService, err := products.NewService(productsRepo)
	exitOnError(logg, "products service", err)

	cartService, err := cart.NewService(cartRepo, productsRepo)
	exitOnError(logg, "cart service", err)

	checkoutService, err := checkoutsvc.NewService(dbClient, cartRepo, productsRepo, ordersRepo, usersRepo)
	exitOnError(logg, "checkout service", err)

	ordersService, err := orders.NewService(ordersRepo)
	exitOnError(logg, "orders service", err)

	reviewsService, err := reviews.NewService(reviews.NewRepository(dbClient.DB()), productsRepo)
	exitOnError(logg, "reviews service", err)

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		DB:              dbClient,
		Redis:           redisClient,
		Metrics:         httpMetrics,
		Registry:        registry,
		AuthService:     authService,
		UsersService:    usersService,
		CatalogService:  catalogService,
		ProductsService: productsService,
		CartService:     cartService,
		CheckoutService: checkoutService,
		OrdersService:   ordersService,
		ReviewsService:  reviewsService,
	})

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
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func exitOnError(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
