package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/domain"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	// Create saves a new user. The implementation is responsible for
	// hashing the plaintext Password field before storage; the caller
	// never persists plaintext.
	// Returns ErrUsernameExists or ErrEmailExists on uniqueness violations.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if no user exists with the given ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by their username. Login flows
	// authenticate by username, so this is the hot lookup path.
	// Returns ErrUserNotFound if no user exists with the given username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update modifies a user's email and role. If the Password field is
	// non-empty it is re-hashed and replaces the stored hash.
	// Returns ErrUserNotFound if no user exists with the given ID.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user by ID.
	// Returns ErrUserNotFound if no user exists with the given ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided
	// transaction for all operations.
	WithTx(tx DBTX) UserStore
}
