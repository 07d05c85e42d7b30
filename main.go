package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"fooddelight/config"
	"fooddelight/handlers"
	"fooddelight/logger"
	"fooddelight/metrics"
	"fooddelight/middleware"
	"fooddelight/orders"
	"fooddelight/routes"
	"fooddelight/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fooddelight:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := config.OpenDatabase(cfg.Database, log, cfg.Log.SQLLevel)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	store, closeStore, err := newSessionStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()
	svc := orders.NewService(db, log, orders.WithMetrics(m))
	auth := middleware.NewAuth(cfg.JWT, store)
	h := handlers.New(db, svc, store, auth, cfg.Admin)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		return fmt.Errorf("setup validator: %w", err)
	}

	r := gin.New()
	r.Use(logger.RequestID(), logger.GinMiddleware(log), logger.Recovery(log), cors(cfg.HTTP.CORSOrigins))
	if cfg.Metrics.Enabled {
		r.Use(m.Middleware())
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}
	routes.SetupRoutes(r, h, auth)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func newSessionStore(cfg *config.Config, log *zap.Logger) (session.Store, func(), error) {
	if cfg.Session.Store != "redis" {
		log.Info("using in-memory session store")
		return session.NewMemoryStore(cfg.Session.TTL), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	store := session.NewRedisStore(client, cfg.Session.TTL)
	if err := store.Ping(context.Background()); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis session store: %w", err)
	}
	log.Info("using redis session store", zap.String("addr", cfg.Redis.Addr))
	return store, func() { _ = client.Close() }, nil
}

// cors allows browser clients from the configured origins; "*" allows any.
func cors(origins []string) gin.HandlerFunc {
	anyOrigin := slices.Contains(origins, "*")
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case anyOrigin:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(origins, origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", strings.Join([]string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader}, ", "))
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
