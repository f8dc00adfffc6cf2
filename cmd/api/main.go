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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bachhoa/bachhoa-store/internal/auth"
	"github.com/bachhoa/bachhoa-store/internal/cache"
	"github.com/bachhoa/bachhoa-store/internal/config"
	"github.com/bachhoa/bachhoa-store/internal/database"
	"github.com/bachhoa/bachhoa-store/internal/handlers"
	"github.com/bachhoa/bachhoa-store/internal/logger"
	"github.com/bachhoa/bachhoa-store/internal/orders"
	"github.com/bachhoa/bachhoa-store/internal/routes"
	"github.com/bachhoa/bachhoa-store/internal/store"
)

func main() {
	// 0. --- Load Configuration (.env + environment) ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. --- Database Connection & Schema ---
	db, err := database.Open(cfg.DBDriver, cfg.DBDSN, zlog)
	if err != nil {
		return err
	}
	if pool, err := db.DB(); err == nil {
		defer pool.Close()
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	if err := database.SeedRoles(db); err != nil {
		return err
	}

	// 2. --- Order Tracking Cache (optional) ---
	trackCache, closeCache, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.TrackCacheTTL, zlog)
	if err != nil {
		return err
	}
	defer closeCache()

	// 3. --- Services ---
	st := store.New(db)
	orderService := orders.NewService(st,
		orders.WithCache(trackCache),
		orders.WithCurrency(cfg.Currency),
		orders.WithLogger(zlog),
	)

	app := &handlers.Handlers{
		Store:  st,
		Orders: orderService,
		Tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
		Log:    zlog,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           routes.SetupRouter(app, cfg.CORSOrigin, zlog),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	// --- Background Worker: cancel unpaid orders past their window ---
	g.Go(func() error {
		return orderService.RunExpiryWorker(ctx, cfg.ExpiryScanInterval, cfg.PendingOrderTTL)
	})

	// --- Start Server ---
	g.Go(func() error {
		zlog.Info("starting Bach Hoa Store API", zap.String("addr", cfg.HTTPAddr), zap.String("db", cfg.DBDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		zlog.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
