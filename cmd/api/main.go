package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rakaputra/warungpos-backend/api/routes"
	"github.com/rakaputra/warungpos-backend/internal/categories"
	"github.com/rakaputra/warungpos-backend/internal/costing"
	"github.com/rakaputra/warungpos-backend/internal/customers"
	"github.com/rakaputra/warungpos-backend/internal/events"
	"github.com/rakaputra/warungpos-backend/internal/items"
	"github.com/rakaputra/warungpos-backend/internal/orders"
	"github.com/rakaputra/warungpos-backend/internal/products"
	"github.com/rakaputra/warungpos-backend/internal/purchases"
	"github.com/rakaputra/warungpos-backend/internal/reports"
	"github.com/rakaputra/warungpos-backend/internal/snapshots"
	"github.com/rakaputra/warungpos-backend/internal/summaries"
	"github.com/rakaputra/warungpos-backend/internal/suppliers"
	"github.com/rakaputra/warungpos-backend/internal/users"
	"github.com/rakaputra/warungpos-backend/pkg/config"
	"github.com/rakaputra/warungpos-backend/pkg/db"
	"github.com/rakaputra/warungpos-backend/pkg/logger"
	"github.com/rakaputra/warungpos-backend/pkg/metrics"
	"github.com/rakaputra/warungpos-backend/pkg/migrate"
	"github.com/rakaputra/warungpos-backend/pkg/outbox"
	"github.com/rakaputra/warungpos-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
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
	httpMetrics := metrics.NewHTTPMetrics(promRegistry)
	engineMetrics := metrics.NewEngineMetrics(promRegistry)

	gormDB := dbClient.DB()
	outboxSvc := outbox.NewService(outbox.NewRepository(gormDB), logg)

	dispatcher, err := events.NewDispatcher(logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create event dispatcher", err)
		os.Exit(1)
	}

	summarySvc, err := summaries.NewService(summaries.NewRepository(gormDB), logg, engineMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create summary service", err)
		os.Exit(1)
	}
	snapshotSvc, err := snapshots.NewService(snapshots.NewRepository(gormDB), summarySvc, logg, engineMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create snapshot service", err)
		os.Exit(1)
	}
	propagator, err := costing.NewPropagator(costing.NewRepository(gormDB), logg, engineMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cost propagator", err)
		os.Exit(1)
	}
	dispatcher.RegisterOrderObserver(snapshotSvc)
	dispatcher.RegisterPurchaseLineObserver(propagator)

	orderSvc, err := orders.NewService(orders.NewRepository(gormDB), dbClient, outboxSvc, dispatcher)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}
	purchaseSvc, err := purchases.NewService(purchases.NewRepository(gormDB), dbClient, outboxSvc, dispatcher)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchase service", err)
		os.Exit(1)
	}
	productSvc, err := products.NewService(products.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}
	itemSvc, err := items.NewService(items.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create item service", err)
		os.Exit(1)
	}
	categorySvc, err := categories.NewService(gormDB)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}
	supplierSvc, err := suppliers.NewService(gormDB)
	if err != nil {
		logg.Error(context.Background(), "failed to create supplier service", err)
		os.Exit(1)
	}
	customerSvc, err := customers.NewService(gormDB)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}
	userSvc, err := users.NewService(gormDB, cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}
	reportSvc, err := reports.NewService(summaries.NewRepository(gormDB), snapshots.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(cfg, logg, dbClient, redisClient, promRegistry, httpMetrics, routes.Services{
		Orders:     orderSvc,
		Purchases:  purchaseSvc,
		Products:   productSvc,
		Items:      itemSvc,
		Categories: categorySvc,
		Suppliers:  supplierSvc,
		Customers:  customerSvc,
		Users:      userSvc,
		Reports:    reportSvc,
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
		Addr:    addr,
		Handler: router,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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
