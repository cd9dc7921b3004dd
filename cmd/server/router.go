package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/faqhub/faq-api/internal/api"
	apimiddleware "github.com/faqhub/faq-api/internal/api/middleware"
	"github.com/faqhub/faq-api/internal/api/shared"
	"github.com/faqhub/faq-api/internal/domain"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.config.Auth,
	)
	faqHandler := api.NewFAQHandler(app.faqStore)
	chatHandler := api.NewChatHandler(
		app.answerService,
		app.conversationService,
		app.logStore,
		app.taskRunner,
		app.logger,
	)
	sessionHandler := api.NewSessionHandler(app.conversationService)
	analyticsHandler := api.NewAnalyticsHandler(app.logStore, app.feedbackStore)

	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Chat and session endpoints (public, used by the widget)
		r.Post("/chat", chatHandler.Chat)
		r.Post("/log", chatHandler.LogQuestion)
		r.Post("/sessions", sessionHandler.Start)
		r.Post("/sessions/{id}/end", sessionHandler.End)
		r.Get("/sessions/{id}", sessionHandler.Status)
		r.Get("/sessions/{id}/questions", sessionHandler.Questions)
		r.Post("/feedback", analyticsHandler.SubmitFeedback)

		// FAQ reads are public
		r.Get("/faqs", faqHandler.List)
		r.Get("/faqs/{id}", faqHandler.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)

			// Analytics endpoints require a logged-in employee or admin
			r.Get("/sessions/statistics", sessionHandler.Statistics)
			r.Get("/analytics/top-categories", analyticsHandler.TopCategories)
			r.Get("/analytics/categories", analyticsHandler.Categories)
			r.Get("/analytics/categories/{category}", analyticsHandler.CategoryDetails)
			r.Get("/analytics/daily", analyticsHandler.DailyCounts)
			r.Get("/analytics/csat", analyticsHandler.CSAT)

			// FAQ writes are admin only
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireRole(domain.RoleAdmin))
				r.Post("/faqs", faqHandler.Create)
				r.Put("/faqs/{id}", faqHandler.Update)
				r.Delete("/faqs/{id}", faqHandler.Delete)
			})
		})
	})

	// Root message, used by platform smoke checks
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
			"message": "FAQ API is running",
		})
	})

	// Health check endpoint, includes database reachability
	r.Get("/health", app.handleHealth)

	return r
}

// handleHealth reports process liveness and database reachability.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := "ok"
	dbStatus := "up"
	status := http.StatusOK
	if err := app.db.PingContext(ctx); err != nil {
		app.logger.Error("health check database ping failed", "error", err)
		health = "degraded"
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}

	shared.RespondWithJSON(w, r, status, map[string]string{
		"status":   health,
		"database": dbStatus,
	})
}
