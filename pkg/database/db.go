package database

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"habitat/config"

	_ "github.com/lib/pq"
)

// Connect opens and pings the PostgreSQL database used by the postgres
// storage backend.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	logger.Info("Connected to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Name))
	return db, nil
}

// Close closes db and logs the failure, if any.
func Close(db *sql.DB, logger *zap.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
		return
	}
	logger.Info("Database connection closed")
}
