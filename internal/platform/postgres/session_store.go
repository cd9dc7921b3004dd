package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/platform/logger"
	"github.com/faqhub/faq-api/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx store.DBTX) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.SessionStore.Create
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.ConversationSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := `
		INSERT INTO conversation_sessions (id, user_id, status, started_at, last_active_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.Status,
		session.StartedAt,
		session.LastActiveAt,
		session.EndedAt,
	)
	if err != nil {
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	log.Info("conversation session started", slog.String("session_id", session.ID.String()))
	return nil
}

// GetByID implements store.SessionStore.GetByID
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ConversationSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, status, started_at, last_active_at, ended_at
		FROM conversation_sessions
		WHERE id = $1
	`

	var session domain.ConversationSession
	var status string
	var userID uuid.NullUUID
	var endedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&userID,
		&status,
		&session.StartedAt,
		&session.LastActiveAt,
		&endedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found", slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, err
	}

	session.Status = domain.SessionStatus(status)
	if userID.Valid {
		session.UserID = &userID.UUID
	}
	if endedAt.Valid {
		t := endedAt.Time
		session.EndedAt = &t
	}

	return &session, nil
}

// Touch implements store.SessionStore.Touch
// Only active sessions can be touched; ended ones report not found.
func (s *PostgresSessionStore) Touch(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE conversation_sessions
		SET last_active_at = $1
		WHERE id = $2 AND status = $3
	`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), id, domain.SessionStatusActive)
	if err != nil {
		log.Error("failed to touch session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return err
	}

	if err := checkRowsAffected(result, store.ErrSessionNotFound); err != nil {
		log.Debug("no active session to touch", slog.String("session_id", id.String()))
		return err
	}

	return nil
}

// End implements store.SessionStore.End
// Returns store.ErrSessionNotFound if the session does not exist.
// Ending an already-ended session is a no-op success.
func (s *PostgresSessionStore) End(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE conversation_sessions
		SET status = $1, ended_at = $2
		WHERE id = $3 AND status = $4
	`

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, query, domain.SessionStatusEnded, now, id, domain.SessionStatusActive)
	if err != nil {
		log.Error("failed to end session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// Distinguish a missing session from one already ended.
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return nil
	}

	log.Info("conversation session ended", slog.String("session_id", id.String()))
	return nil
}

// ExpireIdle implements store.SessionStore.ExpireIdle
func (s *PostgresSessionStore) ExpireIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE conversation_sessions
		SET status = $1, ended_at = $2
		WHERE status = $3 AND last_active_at < $4
	`

	result, err := s.db.ExecContext(ctx, query, domain.SessionStatusEnded, time.Now().UTC(), domain.SessionStatusActive, cutoff)
	if err != nil {
		log.Error("failed to expire idle sessions", slog.String("error", err.Error()))
		return 0, err
	}

	expired, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		log.Info("expired idle sessions",
			slog.Int64("count", expired),
			slog.Time("cutoff", cutoff))
	}
	return expired, nil
}

// CountByStatus implements store.SessionStore.CountByStatus
func (s *PostgresSessionStore) CountByStatus(ctx context.Context, status domain.SessionStatus) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM conversation_sessions WHERE status = $1`, status).Scan(&count)
	if err != nil {
		log.Error("failed to count sessions", slog.String("error", err.Error()))
		return 0, err
	}
	return count, nil
}

// AverageQuestionCount implements store.SessionStore.AverageQuestionCount
func (s *PostgresSessionStore) AverageQuestionCount(ctx context.Context) (float64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COALESCE(AVG(question_count), 0)
		FROM (
			SELECT COUNT(*) AS question_count
			FROM question_logs
			WHERE session_id IS NOT NULL
			GROUP BY session_id
		) per_session
	`

	var avg float64
	if err := s.db.QueryRowContext(ctx, query).Scan(&avg); err != nil {
		log.Error("failed to average questions per session", slog.String("error", err.Error()))
		return 0, err
	}
	return avg, nil
}
