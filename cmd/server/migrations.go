package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/faqhub/faq-api/internal/config"
)

// migrationsDir is the path to the goose migration files, relative to
// the repository root.
const migrationsDir = "internal/platform/postgres/migrations"

// migrationTableName is the table goose uses to track applied versions.
const migrationTableName = "schema_migrations"

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf does not call os.Exit; the error is returned to main which
// handles the exit consistently.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrations opens a connection and executes the given goose command.
// Used by the -migrate flag for operational control of the schema.
func runMigrations(cfg *config.Config, log *slog.Logger, command string) error {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}()

	if err := configureGoose(); err != nil {
		return err
	}

	log.Info("running migration command", slog.String("command", command))

	switch command {
	case "up":
		err = goose.Up(db, migrationsDir)
	case "down":
		err = goose.Down(db, migrationsDir)
	case "reset":
		err = goose.Reset(db, migrationsDir)
	case "status":
		err = goose.Status(db, migrationsDir)
	case "version":
		err = goose.Version(db, migrationsDir)
	default:
		return fmt.Errorf("unknown migration command: %s (expected up, down, reset, status, or version)", command)
	}

	if err != nil {
		return fmt.Errorf("migration command %q failed: %w", command, err)
	}

	log.Info("migration command completed", slog.String("command", command))
	return nil
}

// migrateUp applies all pending migrations on an existing connection.
// Called during startup so deployments never serve from a stale schema.
func migrateUp(db *sql.DB, log *slog.Logger) error {
	if err := configureGoose(); err != nil {
		return err
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		log.Warn("could not read migration version", slog.String("error", err.Error()))
		return nil
	}

	log.Info("database schema up to date", slog.Int64("version", version))
	return nil
}

func configureGoose() error {
	goose.SetLogger(&slogGooseLogger{})
	goose.SetTableName(migrationTableName)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}
