package mocks

import (
	"context"

	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/store"
)

// MockFeedbackStore implements store.FeedbackStore for testing.
type MockFeedbackStore struct {
	// Function fields for customizable behavior
	CreateFn  func(ctx context.Context, fb *domain.Feedback) error
	SummaryFn func(ctx context.Context) (*store.SatisfactionSummary, error)

	// Data for default implementation
	Feedback []*domain.Feedback
	Err      error
}

// NewMockFeedbackStore creates a new mock store with initialized defaults
func NewMockFeedbackStore() *MockFeedbackStore {
	return &MockFeedbackStore{}
}

// Create implements the store.FeedbackStore interface
func (m *MockFeedbackStore) Create(ctx context.Context, fb *domain.Feedback) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, fb)
	}
	if m.Err != nil {
		return m.Err
	}

	m.Feedback = append(m.Feedback, fb)
	return nil
}

// Summary implements the store.FeedbackStore interface
func (m *MockFeedbackStore) Summary(ctx context.Context) (*store.SatisfactionSummary, error) {
	if m.SummaryFn != nil {
		return m.SummaryFn(ctx)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	summary := &store.SatisfactionSummary{Total: int64(len(m.Feedback))}
	ratingSum, ratingCount := 0, 0
	for _, fb := range m.Feedback {
		if fb.Satisfied {
			summary.Satisfied++
		}
		if fb.Rating != nil {
			ratingSum += *fb.Rating
			ratingCount++
		}
	}
	if summary.Total > 0 {
		summary.Score = float64(summary.Satisfied) / float64(summary.Total)
	}
	if ratingCount > 0 {
		summary.AverageRating = float64(ratingSum) / float64(ratingCount)
	}
	return summary, nil
}

// WithTx implements the store.FeedbackStore interface
func (m *MockFeedbackStore) WithTx(tx store.DBTX) store.FeedbackStore {
	return m
}
