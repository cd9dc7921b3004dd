package store

import (
	"context"

	"github.com/faqhub/faq-api/internal/domain"
)

// SatisfactionSummary aggregates feedback submissions into a customer
// satisfaction score.
type SatisfactionSummary struct {
	Total     int64   `json:"total"`
	Satisfied int64   `json:"satisfied"`
	// Score is the share of satisfied responses, in [0, 1].
	// Zero when no feedback has been recorded.
	Score float64 `json:"score"`
	// AverageRating is the mean of the optional 1-5 ratings, ignoring
	// submissions without one. Zero when no ratings exist.
	AverageRating float64 `json:"average_rating"`
}

// FeedbackStore defines persistence operations for chat feedback.
type FeedbackStore interface {
	// Create saves a new feedback entry.
	Create(ctx context.Context, fb *domain.Feedback) error

	// Summary returns aggregate satisfaction statistics across all
	// recorded feedback.
	Summary(ctx context.Context) (*SatisfactionSummary, error)

	// WithTx returns a new FeedbackStore instance that uses the provided
	// transaction for all operations.
	WithTx(tx DBTX) FeedbackStore
}
