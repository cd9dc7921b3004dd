package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/domain"
)

// SessionStore defines persistence operations for conversation sessions.
type SessionStore interface {
	// Create saves a new conversation session.
	Create(ctx context.Context, session *domain.ConversationSession) error

	// GetByID retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if no session exists with the given ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ConversationSession, error)

	// Touch updates a session's last_active_at timestamp to now.
	// Returns ErrSessionNotFound if no active session exists with the
	// given ID.
	Touch(ctx context.Context, id uuid.UUID) error

	// End marks a session as ended and records the end time.
	// Returns ErrSessionNotFound if no session exists with the given ID.
	End(ctx context.Context, id uuid.UUID) error

	// ExpireIdle ends every active session whose last activity is older
	// than the cutoff. It returns the number of sessions ended.
	ExpireIdle(ctx context.Context, cutoff time.Time) (int64, error)

	// CountByStatus returns the number of sessions in the given status.
	CountByStatus(ctx context.Context, status domain.SessionStatus) (int64, error)

	// AverageQuestionCount returns the mean number of logged questions
	// per session across all sessions that have at least one question.
	// Zero when no sessions have questions.
	AverageQuestionCount(ctx context.Context) (float64, error)

	// WithTx returns a new SessionStore instance that uses the provided
	// transaction for all operations.
	WithTx(tx DBTX) SessionStore
}
