package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/faqhub/faq-api/internal/config"
	"github.com/faqhub/faq-api/internal/llm"
	"github.com/faqhub/faq-api/internal/llm/google"
	"github.com/faqhub/faq-api/internal/llm/openai"
	"github.com/faqhub/faq-api/internal/platform/postgres"
	"github.com/faqhub/faq-api/internal/platform/reaper"
	"github.com/faqhub/faq-api/internal/service/answer"
	"github.com/faqhub/faq-api/internal/service/auth"
	"github.com/faqhub/faq-api/internal/service/conversation"
	"github.com/faqhub/faq-api/internal/store"
	"github.com/faqhub/faq-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore     store.UserStore
	faqStore      store.FAQStore
	logStore      store.LogStore
	feedbackStore store.FeedbackStore
	sessionStore  store.SessionStore
	taskStore     task.TaskStore

	// Services
	jwtService          auth.JWTService
	passwordVerifier    auth.PasswordVerifier
	llmProvider         llm.Provider
	answerService       *answer.Service
	conversationService *conversation.Service

	// Background work
	taskRunner    *task.Runner
	sessionReaper *reaper.Reaper
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger,
// and database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: log,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	log.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.passwordVerifier = auth.NewBcryptVerifier()

	// Stores
	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost)
	app.faqStore = postgres.NewPostgresFAQStore(db, log)
	app.logStore = postgres.NewPostgresLogStore(db, log)
	app.feedbackStore = postgres.NewPostgresFeedbackStore(db, log)
	app.sessionStore = postgres.NewPostgresSessionStore(db, log)
	app.taskStore = postgres.NewPostgresTaskStore(db, log)

	// LLM provider. A missing API key is not fatal: the answer service
	// degrades to FAQ-only answers with a canned fallback.
	app.llmProvider, err = setupLLMProvider(ctx, cfg.AI, log)
	if err != nil {
		return nil, err
	}

	app.answerService = answer.NewService(app.faqStore, app.llmProvider, cfg.AI, log)
	app.conversationService = conversation.NewService(
		db,
		app.sessionStore,
		app.logStore,
		app.feedbackStore,
		cfg.Session,
		log,
	)

	app.taskRunner = task.NewRunner(
		app.taskStore,
		task.NewEnrichmentFactory(app.logStore),
		task.RunnerConfig{
			WorkerCount:  cfg.Task.WorkerCount,
			QueueSize:    cfg.Task.QueueSize,
			StuckTaskAge: time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
		},
		log,
	)
	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	app.sessionReaper, err = reaper.New(app.conversationService, cfg.Session.ReaperCronSpec, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create session reaper: %w", err)
	}
	app.sessionReaper.Start()

	log.Info("application initialized")
	return app, nil
}

// setupLLMProvider selects and configures the chat-completion backend.
// Returns nil (no provider) when the configured backend has no API key.
func setupLLMProvider(ctx context.Context, cfg config.AIConfig, log *slog.Logger) (llm.Provider, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Warn("OPENAI_API_KEY not set, AI fallback answers disabled")
			return nil, nil
		}
		log.Info("LLM provider initialized",
			slog.String("provider", "openai"),
			slog.String("model", cfg.Model))
		return openai.New(cfg.OpenAIAPIKey, ""), nil

	case "google":
		if cfg.GoogleAPIKey == "" {
			log.Warn("GOOGLE_API_KEY not set, AI fallback answers disabled")
			return nil, nil
		}
		provider, err := google.New(ctx, cfg.GoogleAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize google provider: %w", err)
		}
		log.Info("LLM provider initialized",
			slog.String("provider", "google"),
			slog.String("model", cfg.Model))
		return provider, nil

	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.Provider)
	}
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.sessionReaper != nil {
		app.sessionReaper.Stop()
	}

	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
