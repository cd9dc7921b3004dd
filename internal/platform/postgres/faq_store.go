package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/platform/logger"
	"github.com/faqhub/faq-api/internal/store"
)

// PostgresFAQStore implements the store.FAQStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFAQStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFAQStore creates a new PostgreSQL implementation of the
// FAQStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresFAQStore(db store.DBTX, logger *slog.Logger) *PostgresFAQStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFAQStore{
		db:     db,
		logger: logger.With(slog.String("component", "faq_store")),
	}
}

// Ensure PostgresFAQStore implements store.FAQStore interface
var _ store.FAQStore = (*PostgresFAQStore)(nil)

// WithTx implements store.FAQStore.WithTx
func (s *PostgresFAQStore) WithTx(tx store.DBTX) store.FAQStore {
	return &PostgresFAQStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.FAQStore.Create
// It saves a new FAQ entry to the database, handling domain validation.
func (s *PostgresFAQStore) Create(ctx context.Context, faq *domain.FAQ) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := faq.Validate(); err != nil {
		log.Warn("faq validation failed during create",
			slog.String("error", err.Error()),
			slog.String("faq_id", faq.ID.String()))
		return err
	}

	query := `
		INSERT INTO faqs (id, question, answer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		faq.ID,
		faq.Question,
		faq.Answer,
		faq.CreatedAt,
		faq.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create faq",
			slog.String("error", err.Error()),
			slog.String("faq_id", faq.ID.String()))
		return MapError(err)
	}

	log.Info("faq created successfully", slog.String("faq_id", faq.ID.String()))
	return nil
}

// CreateBatch implements store.FAQStore.CreateBatch
// All entries are inserted with a single multi-row statement so the
// batch succeeds or fails as a whole.
func (s *PostgresFAQStore) CreateBatch(ctx context.Context, faqs []*domain.FAQ) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(faqs) == 0 {
		return nil
	}

	for _, faq := range faqs {
		if err := faq.Validate(); err != nil {
			log.Warn("faq validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("faq_id", faq.ID.String()))
			return err
		}
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO faqs (id, question, answer, created_at, updated_at) VALUES `)
	args := make([]interface{}, 0, len(faqs)*5)
	for i, faq := range faqs {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5)
		args = append(args, faq.ID, faq.Question, faq.Answer, faq.CreatedAt, faq.UpdatedAt)
	}

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		log.Error("failed to create faq batch",
			slog.String("error", err.Error()),
			slog.Int("count", len(faqs)))
		return MapError(err)
	}

	log.Info("faq batch created successfully", slog.Int("count", len(faqs)))
	return nil
}

// GetByID implements store.FAQStore.GetByID
// Returns store.ErrFAQNotFound if the entry does not exist.
func (s *PostgresFAQStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.FAQ, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, question, answer, created_at, updated_at
		FROM faqs
		WHERE id = $1
	`

	var faq domain.FAQ
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&faq.ID,
		&faq.Question,
		&faq.Answer,
		&faq.CreatedAt,
		&faq.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("faq not found", slog.String("faq_id", id.String()))
			return nil, store.ErrFAQNotFound
		}
		log.Error("failed to get faq by ID",
			slog.String("error", err.Error()),
			slog.String("faq_id", id.String()))
		return nil, err
	}

	return &faq, nil
}

// List implements store.FAQStore.List
// Returns all FAQ entries ordered newest first, or an empty slice when
// none exist.
func (s *PostgresFAQStore) List(ctx context.Context) ([]*domain.FAQ, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, question, answer, created_at, updated_at
		FROM faqs
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query faqs", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var faqs []*domain.FAQ
	for rows.Next() {
		var faq domain.FAQ
		if err := rows.Scan(
			&faq.ID,
			&faq.Question,
			&faq.Answer,
			&faq.CreatedAt,
			&faq.UpdatedAt,
		); err != nil {
			log.Error("failed to scan faq row", slog.String("error", err.Error()))
			return nil, err
		}
		faqs = append(faqs, &faq)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if faqs == nil {
		faqs = []*domain.FAQ{}
	}

	log.Debug("listed faqs", slog.Int("count", len(faqs)))
	return faqs, nil
}

// Update implements store.FAQStore.Update
// Returns store.ErrFAQNotFound if the entry does not exist.
func (s *PostgresFAQStore) Update(ctx context.Context, faq *domain.FAQ) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := faq.Validate(); err != nil {
		log.Warn("faq validation failed during update",
			slog.String("error", err.Error()),
			slog.String("faq_id", faq.ID.String()))
		return err
	}

	faq.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE faqs
		SET question = $1, answer = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		faq.Question,
		faq.Answer,
		faq.UpdatedAt,
		faq.ID,
	)
	if err != nil {
		log.Error("failed to update faq",
			slog.String("error", err.Error()),
			slog.String("faq_id", faq.ID.String()))
		return MapError(err)
	}

	if err := checkRowsAffected(result, store.ErrFAQNotFound); err != nil {
		log.Debug("faq not found for update", slog.String("faq_id", faq.ID.String()))
		return err
	}

	log.Info("faq updated successfully", slog.String("faq_id", faq.ID.String()))
	return nil
}

// Delete implements store.FAQStore.Delete
// Returns store.ErrFAQNotFound if the entry does not exist.
func (s *PostgresFAQStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM faqs WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete faq",
			slog.String("error", err.Error()),
			slog.String("faq_id", id.String()))
		return err
	}

	if err := checkRowsAffected(result, store.ErrFAQNotFound); err != nil {
		log.Debug("faq not found for delete", slog.String("faq_id", id.String()))
		return err
	}

	log.Info("faq deleted successfully", slog.String("faq_id", id.String()))
	return nil
}

// Count implements store.FAQStore.Count
func (s *PostgresFAQStore) Count(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM faqs`).Scan(&count)
	if err != nil {
		log.Error("failed to count faqs", slog.String("error", err.Error()))
		return 0, err
	}
	return count, nil
}
