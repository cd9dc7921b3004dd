package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/domain"
)

// FAQStore defines persistence operations for FAQ entries.
type FAQStore interface {
	// Create saves a new FAQ entry.
	// Returns validation errors from the domain layer unchanged.
	Create(ctx context.Context, faq *domain.FAQ) error

	// CreateBatch saves multiple FAQ entries in a single atomic statement.
	// Either all entries are persisted or none are.
	CreateBatch(ctx context.Context, faqs []*domain.FAQ) error

	// GetByID retrieves a FAQ entry by its unique ID.
	// Returns ErrFAQNotFound if no entry exists with the given ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FAQ, error)

	// List returns all FAQ entries ordered by creation time, newest first.
	// Returns an empty slice when no entries exist.
	List(ctx context.Context) ([]*domain.FAQ, error)

	// Update modifies the question and answer of an existing entry and
	// refreshes its updated_at timestamp.
	// Returns ErrFAQNotFound if no entry exists with the given ID.
	Update(ctx context.Context, faq *domain.FAQ) error

	// Delete removes a FAQ entry by ID.
	// Returns ErrFAQNotFound if no entry exists with the given ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total number of FAQ entries.
	Count(ctx context.Context) (int64, error)

	// WithTx returns a new FAQStore instance that uses the provided
	// transaction for all operations.
	WithTx(tx DBTX) FAQStore
}
