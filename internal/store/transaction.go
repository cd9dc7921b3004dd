package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/faqhub/faq-api/internal/platform/logger"
)

// RunInTransaction executes fn within a database transaction, committing
// on success and rolling back on error or panic. The transaction is passed
// to fn so store methods can be rebound with WithTx.
func RunInTransaction(ctx context.Context, db *sql.DB, log *slog.Logger, fn func(ctx context.Context, tx *sql.Tx) error) error {
	log = logger.FromContextOrDefault(ctx, log)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				log.Error("rollback after panic failed", slog.Any("error", rbErr))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			log.Error("transaction rollback failed",
				slog.Any("rollback_error", rbErr),
				slog.Any("original_error", err))
			return fmt.Errorf("%w: rollback failed (%v) after error: %v", ErrTransactionFailed, rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}
	return nil
}
