package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"habitat/config"
	"habitat/internal/api"
	"habitat/internal/auth"
	"habitat/internal/draft"
	"habitat/internal/handler"
	"habitat/internal/storage"
	"habitat/pkg/database"
)

// sweepInterval paces the cleanup of the in-memory stores.
const sweepInterval = 10 * time.Minute

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.UsesDefaultSecret() {
		logger.Warn("SESSION_SECRET is not set, using the built-in development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cookies, err := auth.NewCookieStore(cfg.Session.Secret, cfg.Session.SecureCookie, cfg.Session.MaxAgeDays)
	if err != nil {
		logger.Fatal("Failed to build cookie store", zap.Error(err))
	}

	backend, db, err := newStorageBackend(ctx, cfg, cookies, logger)
	if err != nil {
		logger.Fatal("Failed to open browser storage", zap.String("storage", cfg.Session.Storage), zap.Error(err))
	}
	defer database.Close(db, logger)

	drafts, closeDrafts, err := newDraftStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open draft store", zap.String("store", cfg.Drafts.Store), zap.Error(err))
	}
	defer closeDrafts()

	client := api.NewClient(cfg.API.BaseURL, newHTTPClient(cfg), logger)
	h, err := handler.NewHandler(
		api.NewAuthClient(client),
		api.NewCriteriaClient(client),
		api.NewPlanetClient(client),
		drafts,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to build handlers", zap.Error(err))
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           h.Routes(backend, time.Now, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Console listening",
			zap.String("addr", server.Addr),
			zap.String("api", cfg.API.BaseURL),
			zap.String("storage", cfg.Session.Storage),
			zap.String("drafts", cfg.Drafts.Store))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
	logger.Info("Console stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newStorageBackend opens the configured per-browser storage. The returned
// database is nil unless the postgres backend is used.
func newStorageBackend(ctx context.Context, cfg *config.Config, cookies sessions.Store, logger *zap.Logger) (storage.Backend, *sql.DB, error) {
	switch cfg.Session.Storage {
	case "memory":
		idle := time.Duration(cfg.Session.MaxAgeDays) * 24 * time.Hour
		backend := storage.NewMemory(cookies, idle)
		go backend.Run(ctx, sweepInterval)
		return backend, nil, nil
	case "postgres":
		db, err := database.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(db, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		return storage.NewPostgres(db, cookies), db, nil
	}
	return storage.NewCookie(cookies), nil, nil
}

func newDraftStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (draft.Store, func(), error) {
	if cfg.Drafts.Store != "redis" {
		store := draft.NewMemoryStore(cfg.Drafts.TTL)
		go store.Run(ctx, sweepInterval)
		return store, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	return draft.NewRedisStore(client, cfg.Drafts.TTL), func() {
		if err := client.Close(); err != nil {
			logger.Warn("Redis close error", zap.Error(err))
		}
	}, nil
}

// newHTTPClient has no timeout: API calls are bounded by the request context.
func newHTTPClient(cfg *config.Config) *http.Client {
	if !cfg.API.InsecureSkipVerify {
		return &http.Client{}
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // local self-signed API
	return &http.Client{Transport: transport}
}
