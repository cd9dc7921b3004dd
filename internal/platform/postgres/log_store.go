package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/platform/logger"
	"github.com/faqhub/faq-api/internal/store"
)

// PostgresLogStore implements the store.LogStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLogStore creates a new PostgreSQL implementation of the
// LogStore interface.
func NewPostgresLogStore(db store.DBTX, logger *slog.Logger) *PostgresLogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "log_store")),
	}
}

// Ensure PostgresLogStore implements store.LogStore interface
var _ store.LogStore = (*PostgresLogStore)(nil)

// WithTx implements store.LogStore.WithTx
func (s *PostgresLogStore) WithTx(tx store.DBTX) store.LogStore {
	return &PostgresLogStore{
		db:     tx,
		logger: s.logger,
	}
}

// Keywords are stored as a single comma-joined text column, matching the
// domain field. The keyword extractor emits single-word tokens, so the
// separator is unambiguous.
func joinKeywords(keywords []string) string {
	return strings.Join(keywords, ",")
}

// Create implements store.LogStore.Create
func (s *PostgresLogStore) Create(ctx context.Context, entry *domain.QuestionLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("question log validation failed during create",
			slog.String("error", err.Error()),
			slog.String("log_id", entry.ID.String()))
		return err
	}

	query := `
		INSERT INTO question_logs (id, question, keywords, category, session_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.Question,
		entry.Keywords,
		entry.Category,
		entry.SessionID,
		entry.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create question log",
			slog.String("error", err.Error()),
			slog.String("log_id", entry.ID.String()))
		return MapError(err)
	}

	log.Debug("question log created", slog.String("log_id", entry.ID.String()))
	return nil
}

// GetByID implements store.LogStore.GetByID
// Returns store.ErrLogNotFound if the entry does not exist.
func (s *PostgresLogStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuestionLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, question, keywords, category, session_id, created_at
		FROM question_logs
		WHERE id = $1
	`

	entry, err := scanQuestionLog(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("question log not found", slog.String("log_id", id.String()))
			return nil, store.ErrLogNotFound
		}
		log.Error("failed to get question log",
			slog.String("error", err.Error()),
			slog.String("log_id", id.String()))
		return nil, err
	}

	return entry, nil
}

// UpdateEnrichment implements store.LogStore.UpdateEnrichment
// Returns store.ErrLogNotFound if the entry does not exist.
func (s *PostgresLogStore) UpdateEnrichment(ctx context.Context, id uuid.UUID, keywords []string, category string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE question_logs
		SET keywords = $1, category = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, joinKeywords(keywords), category, id)
	if err != nil {
		log.Error("failed to update question log enrichment",
			slog.String("error", err.Error()),
			slog.String("log_id", id.String()))
		return err
	}

	if err := checkRowsAffected(result, store.ErrLogNotFound); err != nil {
		log.Debug("question log not found for enrichment", slog.String("log_id", id.String()))
		return err
	}

	log.Debug("question log enriched",
		slog.String("log_id", id.String()),
		slog.String("category", category),
		slog.Int("keyword_count", len(keywords)))
	return nil
}

// ListBySession implements store.LogStore.ListBySession
func (s *PostgresLogStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.QuestionLog, error) {
	query := `
		SELECT id, question, keywords, category, session_id, created_at
		FROM question_logs
		WHERE session_id = $1
		ORDER BY created_at ASC
	`
	return s.queryLogs(ctx, query, sessionID)
}

// ListRecent implements store.LogStore.ListRecent
func (s *PostgresLogStore) ListRecent(ctx context.Context, limit int) ([]*domain.QuestionLog, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, question, keywords, category, session_id, created_at
		FROM question_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	return s.queryLogs(ctx, query, limit)
}

// CategoryQuestions implements store.LogStore.CategoryQuestions
func (s *PostgresLogStore) CategoryQuestions(ctx context.Context, category string, limit int) ([]*domain.QuestionLog, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, question, keywords, category, session_id, created_at
		FROM question_logs
		WHERE category = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return s.queryLogs(ctx, query, category, limit)
}

// TopCategories implements store.LogStore.TopCategories
func (s *PostgresLogStore) TopCategories(ctx context.Context, limit int) ([]store.CategoryCount, error) {
	if limit <= 0 {
		limit = 5
	}

	query := `
		SELECT category, COUNT(*) AS count
		FROM question_logs
		WHERE category <> ''
		GROUP BY category
		ORDER BY count DESC, category ASC
		LIMIT $1
	`
	return s.queryCategoryCounts(ctx, query, limit)
}

// CategoryCounts implements store.LogStore.CategoryCounts
func (s *PostgresLogStore) CategoryCounts(ctx context.Context) ([]store.CategoryCount, error) {
	query := `
		SELECT category, COUNT(*) AS count
		FROM question_logs
		WHERE category <> ''
		GROUP BY category
		ORDER BY count DESC, category ASC
	`
	return s.queryCategoryCounts(ctx, query)
}

// DailyCounts implements store.LogStore.DailyCounts
func (s *PostgresLogStore) DailyCounts(ctx context.Context, days int) ([]store.DailyCount, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if days <= 0 {
		days = 7
	}

	query := `
		SELECT date_trunc('day', created_at) AS day, COUNT(*) AS count
		FROM question_logs
		WHERE created_at >= NOW() - ($1 * INTERVAL '1 day')
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := s.db.QueryContext(ctx, query, days)
	if err != nil {
		log.Error("failed to query daily counts", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	counts := []store.DailyCount{}
	for rows.Next() {
		var dc store.DailyCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			log.Error("failed to scan daily count row", slog.String("error", err.Error()))
			return nil, err
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return counts, nil
}

// Count implements store.LogStore.Count
func (s *PostgresLogStore) Count(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM question_logs`).Scan(&count)
	if err != nil {
		log.Error("failed to count question logs", slog.String("error", err.Error()))
		return 0, err
	}
	return count, nil
}

func (s *PostgresLogStore) queryLogs(ctx context.Context, query string, args ...any) ([]*domain.QuestionLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query question logs", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	entries := []*domain.QuestionLog{}
	for rows.Next() {
		entry, err := scanQuestionLog(rows)
		if err != nil {
			log.Error("failed to scan question log row", slog.String("error", err.Error()))
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return entries, nil
}

func (s *PostgresLogStore) queryCategoryCounts(ctx context.Context, query string, args ...any) ([]store.CategoryCount, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query category counts", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	counts := []store.CategoryCount{}
	for rows.Next() {
		var cc store.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			log.Error("failed to scan category count row", slog.String("error", err.Error()))
			return nil, err
		}
		counts = append(counts, cc)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return counts, nil
}

// rowScanner lets scanQuestionLog work over both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestionLog(row rowScanner) (*domain.QuestionLog, error) {
	var entry domain.QuestionLog
	var sessionID uuid.NullUUID

	err := row.Scan(
		&entry.ID,
		&entry.Question,
		&entry.Keywords,
		&entry.Category,
		&sessionID,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if sessionID.Valid {
		entry.SessionID = &sessionID.UUID
	}
	return &entry, nil
}
