package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/domain"
)

// CategoryCount is an aggregate row pairing a question category with the
// number of logged questions assigned to it.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// DailyCount is an aggregate row pairing a calendar day with the number
// of questions logged on that day.
type DailyCount struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

// LogStore defines persistence operations for question logs and the
// aggregations that back the analytics endpoints.
type LogStore interface {
	// Create saves a new question log entry.
	Create(ctx context.Context, log *domain.QuestionLog) error

	// GetByID retrieves a question log by its unique ID.
	// Returns ErrLogNotFound if no entry exists with the given ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.QuestionLog, error)

	// UpdateEnrichment replaces the keywords and category of an existing
	// log entry. It is called by the background enrichment task after
	// keyword extraction completes.
	// Returns ErrLogNotFound if no entry exists with the given ID.
	UpdateEnrichment(ctx context.Context, id uuid.UUID, keywords []string, category string) error

	// ListBySession returns all question logs for a conversation session,
	// ordered by creation time ascending.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.QuestionLog, error)

	// ListRecent returns the most recent question logs up to limit,
	// newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.QuestionLog, error)

	// TopCategories returns the categories with the most logged questions,
	// ordered by count descending, up to limit rows.
	TopCategories(ctx context.Context, limit int) ([]CategoryCount, error)

	// CategoryCounts returns question counts for every category,
	// ordered by count descending.
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)

	// CategoryQuestions returns the logged questions assigned to the
	// given category, newest first, up to limit rows.
	CategoryQuestions(ctx context.Context, category string, limit int) ([]*domain.QuestionLog, error)

	// DailyCounts returns per-day question counts for the trailing
	// window of days, ordered by day ascending.
	DailyCounts(ctx context.Context, days int) ([]DailyCount, error)

	// Count returns the total number of logged questions.
	Count(ctx context.Context) (int64, error)

	// WithTx returns a new LogStore instance that uses the provided
	// transaction for all operations.
	WithTx(tx DBTX) LogStore
}
