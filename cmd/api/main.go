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
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/veloxmotors/dealership-backend/api/controllers"
	"github.com/veloxmotors/dealership-backend/api/routes"
	"github.com/veloxmotors/dealership-backend/internal/categories"
	"github.com/veloxmotors/dealership-backend/internal/dashboard"
	"github.com/veloxmotors/dealership-backend/internal/leads"
	"github.com/veloxmotors/dealership-backend/internal/sales"
	"github.com/veloxmotors/dealership-backend/internal/stock"
	"github.com/veloxmotors/dealership-backend/internal/testimonials"
	"github.com/veloxmotors/dealership-backend/internal/users"
	"github.com/veloxmotors/dealership-backend/internal/vehicles"
	"github.com/veloxmotors/dealership-backend/pkg/config"
	"github.com/veloxmotors/dealership-backend/pkg/db"
	"github.com/veloxmotors/dealership-backend/pkg/logger"
	"github.com/veloxmotors/dealership-backend/pkg/migrate"
	"github.com/veloxmotors/dealership-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	gormDB := dbClient.DB()

	categorySvc := categories.NewService(categories.NewRepository(gormDB))
	vehicleSvc := vehicles.NewService(vehicles.NewRepository(gormDB), categorySvc, logg)
	stockSvc := stock.NewService(stock.NewRepository(gormDB), dbClient, vehicleSvc, logg, cfg.Stock)
	vehicleSvc.BindStock(stockSvc)

	userSvc := users.NewService(users.NewRepository(gormDB))
	testimonialSvc := testimonials.NewService(testimonials.NewRepository(gormDB))
	saleSvc := sales.NewService(sales.NewRepository(gormDB), stockSvc, vehicleSvc, userSvc, logg)
	leadSvc := leads.NewService(leads.NewRepository(gormDB), vehicleSvc)
	dashboardSvc := dashboard.NewService(gormDB)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := routes.NewRouter(cfg, routes.Services{
		Stock:        stockSvc,
		Vehicles:     vehicleSvc,
		Categories:   categorySvc,
		Users:        userSvc,
		Testimonials: testimonialSvc,
		Sales:        saleSvc,
		Leads:        leadSvc,
		Dashboard:    dashboardSvc,
	}, routes.Dependencies{
		Logger:   logg,
		Registry: registry,
		Pingers: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
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
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stopCh:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
	logg.Info(ctx, "api server stopped")
}
