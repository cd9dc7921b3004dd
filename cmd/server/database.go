package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/faqhub/faq-api/internal/config"
	"github.com/faqhub/faq-api/internal/redact"
)

// setupDatabase establishes a connection to the database and configures
// the connection pool from config.
func setupDatabase(cfg *config.Config, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %s", redact.Error(err))
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns())
	db.SetMaxIdleConns(cfg.Database.PoolSize)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetimeMin) * time.Minute)

	ctx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Database.PoolTimeoutSeconds)*time.Second,
	)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %s", redact.Error(err))
	}

	log.Info("database connection established",
		slog.Int("max_open_conns", cfg.Database.MaxOpenConns()),
		slog.Int("pool_size", cfg.Database.PoolSize))
	return db, nil
}
