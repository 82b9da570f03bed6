package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drone-dispatch-service/internal/adapters/cache"
	"drone-dispatch-service/internal/adapters/refdata"
	"drone-dispatch-service/internal/adapters/repositories"
	"drone-dispatch-service/internal/api"
	"drone-dispatch-service/internal/api/handlers"
	"drone-dispatch-service/internal/platform/config"
	"drone-dispatch-service/internal/platform/db"
	"drone-dispatch-service/internal/ports"
	"drone-dispatch-service/internal/services"

	"github.com/redis/go-redis/v9"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("server: %v", err)
	}

	database, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatalf("server: %v", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := repositories.InitSchema(ctx, database); err != nil {
		logger.Fatalf("server: %v", err)
	}
	store := repositories.NewSQLOrderStore(database, cfg.DBDriver)
	if cfg.SeedFile != "" {
		if err := repositories.SeedDemoOrders(ctx, store, cfg.SeedFile); err != nil {
			logger.Fatalf("server: %v", err)
		}
	}

	var upstream ports.Catalog
	if cfg.CatalogURL != "" {
		upstream = refdata.NewHTTPCatalog(cfg.CatalogURL, nil, logger)
	} else {
		upstream, err = refdata.NewFileCatalog(cfg.CatalogFile)
		if err != nil {
			logger.Fatalf("server: %v", err)
		}
	}
	catalog := refdata.NewSnapshotCatalog(upstream, cfg.Tuning.CatalogTTL)

	var pathCache ports.PathCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		pathCache = cache.NewRedisPathCache(client, 24*time.Hour)
		logger.Printf("server: path cache enabled addr=%s", cfg.RedisAddr)
	}

	sim := services.NewSimulator(cfg.Tuning.DroneSpeed, logger)
	planner := services.NewPlanner(logger)
	orders := services.NewOrderService(store, catalog, sim, logger)
	scheduler := services.NewScheduler(store, catalog, pathCache, planner, sim, cfg.Tuning.SchedulerPeriod, logger)
	feed := api.NewFeed(sim, orders, cfg.Tuning.BroadcastPeriod, logger)

	router := api.NewRouter(api.RouterDeps{
		Orders:  handlers.NewOrderHandler(orders, logger),
		Drones:  handlers.NewDroneHandler(catalog, logger),
		Plans:   handlers.NewPlanHandler(catalog, planner, logger),
		Flights: handlers.NewFlightHandler(sim, logger),
		Feed:    feed,
		Logger:  logger,
	})

	go scheduler.Run(ctx)
	go feed.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("server: shutdown err=%v", err)
		}
	}()

	logger.Printf("server: listening addr=%s db=%s", cfg.HTTPAddr, cfg.DBDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server: %v", err)
	}
}
