// Package main implements the entry point for the FAQ chatbot API
// server, which answers customer questions from a curated FAQ corpus
// with an LLM fallback and records usage analytics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/faqhub/faq-api/internal/config"
	"github.com/faqhub/faq-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "Run a migration command (up, down, reset, status, version) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		slog.Error("fatal error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run loads configuration, sets up logging, and either runs a migration
// command or starts the API server.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("env", cfg.Server.Env),
		slog.Bool("railway_deployment", cfg.Server.RailwayDeployment),
		slog.String("ai_provider", cfg.AI.Provider))

	if migrateCmd != "" {
		return runMigrations(cfg, log, migrateCmd)
	}

	db, err := setupDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	// Apply pending migrations on startup so a fresh deployment comes up
	// with a complete schema.
	if err := migrateUp(db, log); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
