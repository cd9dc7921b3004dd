// Package conversation manages chat session lifecycle: starting and
// ending sessions, recording end-of-session feedback, and reaping
// sessions left idle past the configured timeout.
package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/config"
	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/platform/logger"
	"github.com/faqhub/faq-api/internal/store"
)

// EndFeedback carries optional feedback submitted when a session ends.
type EndFeedback struct {
	Satisfied bool
	Rating    *int
	Comment   string
}

// Statistics summarizes session activity for the analytics endpoint.
type Statistics struct {
	ActiveSessions             int64   `json:"active_sessions"`
	EndedSessions              int64   `json:"ended_sessions"`
	AverageQuestionsPerSession float64 `json:"average_questions_per_session"`
}

// Service coordinates session state across the session, log, and
// feedback stores.
type Service struct {
	db            *sql.DB
	sessionStore  store.SessionStore
	logStore      store.LogStore
	feedbackStore store.FeedbackStore
	idleTimeout   time.Duration
	logger        *slog.Logger
}

// NewService creates a conversation service.
func NewService(
	db *sql.DB,
	sessionStore store.SessionStore,
	logStore store.LogStore,
	feedbackStore store.FeedbackStore,
	cfg config.SessionConfig,
	log *slog.Logger,
) *Service {
	if sessionStore == nil || logStore == nil || feedbackStore == nil {
		panic("stores cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		db:            db,
		sessionStore:  sessionStore,
		logStore:      logStore,
		feedbackStore: feedbackStore,
		idleTimeout:   time.Duration(cfg.IdleTimeoutMinutes) * time.Minute,
		logger:        log.With(slog.String("component", "conversation_service")),
	}
}

// Start opens a new conversation session, optionally bound to a user.
func (s *Service) Start(ctx context.Context, userID *uuid.UUID) (*domain.ConversationSession, error) {
	session, err := domain.NewConversationSession(userID)
	if err != nil {
		return nil, err
	}

	if err := s.sessionStore.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// End closes a session and records any feedback in the same
// transaction, so a feedback row never outlives its session state.
// Ending an unknown session returns store.ErrSessionNotFound. Ending
// an already-ended session succeeds without writing feedback again,
// so a replayed end request cannot duplicate the feedback row.
func (s *Service) End(ctx context.Context, sessionID uuid.UUID, feedback *EndFeedback) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	return store.RunInTransaction(ctx, s.db, log, func(ctx context.Context, tx *sql.Tx) error {
		sessions := s.sessionStore.WithTx(tx)

		session, err := sessions.GetByID(ctx, sessionID)
		if err != nil {
			return err
		}
		alreadyEnded := !session.IsActive()

		if err := sessions.End(ctx, sessionID); err != nil {
			return err
		}

		if feedback == nil || alreadyEnded {
			return nil
		}

		fb, err := domain.NewFeedback(feedback.Satisfied, feedback.Rating, feedback.Comment, &sessionID)
		if err != nil {
			return err
		}
		return s.feedbackStore.WithTx(tx).Create(ctx, fb)
	})
}

// Get returns the session with the given ID.
func (s *Service) Get(ctx context.Context, sessionID uuid.UUID) (*domain.ConversationSession, error) {
	return s.sessionStore.GetByID(ctx, sessionID)
}

// Questions returns all questions logged against the session.
func (s *Service) Questions(ctx context.Context, sessionID uuid.UUID) ([]*domain.QuestionLog, error) {
	if _, err := s.sessionStore.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.logStore.ListBySession(ctx, sessionID)
}

// TouchIfActive refreshes a session's activity timestamp. It reports
// whether the session was active; a missing or ended session is not an
// error for the chat flow, just an unbound question.
func (s *Service) TouchIfActive(ctx context.Context, sessionID uuid.UUID) bool {
	err := s.sessionStore.Touch(ctx, sessionID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to touch session",
				slog.String("session_id", sessionID.String()),
				slog.String("error", err.Error()))
		}
		return false
	}
	return true
}

// Statistics aggregates session counts and question density.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	active, err := s.sessionStore.CountByStatus(ctx, domain.SessionStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to count active sessions: %w", err)
	}

	ended, err := s.sessionStore.CountByStatus(ctx, domain.SessionStatusEnded)
	if err != nil {
		return nil, fmt.Errorf("failed to count ended sessions: %w", err)
	}

	avg, err := s.sessionStore.AverageQuestionCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to average questions per session: %w", err)
	}

	return &Statistics{
		ActiveSessions:             active,
		EndedSessions:              ended,
		AverageQuestionsPerSession: avg,
	}, nil
}

// ExpireIdle ends sessions with no activity inside the idle timeout.
// It is called periodically by the session reaper.
func (s *Service) ExpireIdle(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.idleTimeout)
	return s.sessionStore.ExpireIdle(ctx, cutoff)
}
