package postgres

import (
	"context"
	"log/slog"

	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/platform/logger"
	"github.com/faqhub/faq-api/internal/store"
)

// PostgresFeedbackStore implements the store.FeedbackStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFeedbackStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFeedbackStore creates a new PostgreSQL implementation of the
// FeedbackStore interface.
func NewPostgresFeedbackStore(db store.DBTX, logger *slog.Logger) *PostgresFeedbackStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFeedbackStore{
		db:     db,
		logger: logger.With(slog.String("component", "feedback_store")),
	}
}

// Ensure PostgresFeedbackStore implements store.FeedbackStore interface
var _ store.FeedbackStore = (*PostgresFeedbackStore)(nil)

// WithTx implements store.FeedbackStore.WithTx
func (s *PostgresFeedbackStore) WithTx(tx store.DBTX) store.FeedbackStore {
	return &PostgresFeedbackStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.FeedbackStore.Create
func (s *PostgresFeedbackStore) Create(ctx context.Context, fb *domain.Feedback) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := fb.Validate(); err != nil {
		log.Warn("feedback validation failed during create",
			slog.String("error", err.Error()),
			slog.String("feedback_id", fb.ID.String()))
		return err
	}

	query := `
		INSERT INTO feedback (id, session_id, satisfied, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		fb.ID,
		fb.SessionID,
		fb.Satisfied,
		fb.Rating,
		fb.Comment,
		fb.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create feedback",
			slog.String("error", err.Error()),
			slog.String("feedback_id", fb.ID.String()))
		return MapError(err)
	}

	log.Info("feedback recorded",
		slog.String("feedback_id", fb.ID.String()),
		slog.Bool("satisfied", fb.Satisfied))
	return nil
}

// Summary implements store.FeedbackStore.Summary
// Aggregation happens in SQL so the summary stays cheap as feedback grows.
func (s *PostgresFeedbackStore) Summary(ctx context.Context) (*store.SatisfactionSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE satisfied),
			COALESCE(AVG(rating), 0)
		FROM feedback
	`

	var summary store.SatisfactionSummary
	err := s.db.QueryRowContext(ctx, query).Scan(
		&summary.Total,
		&summary.Satisfied,
		&summary.AverageRating,
	)
	if err != nil {
		log.Error("failed to summarize feedback", slog.String("error", err.Error()))
		return nil, err
	}

	if summary.Total > 0 {
		summary.Score = float64(summary.Satisfied) / float64(summary.Total)
	}

	return &summary, nil
}
