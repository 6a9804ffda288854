package services

import (
	"context"
	"fmt"

	"github.com/contentpulse/contentpulse-backend/repositories"
)

// WithTransaction runs fn inside one database transaction and commits only if
// fn returns nil. The workflow services use it to make every transition
// atomic: the status update, its audit entry, and any revision-notes feedback
// either all land or none do, so a state change without a matching audit row
// is never observable.
//
// fn receives the transaction's context; repositories called with it execute
// against the open transaction rather than the pool.
func WithTransaction(ctx context.Context, txMgr repositories.TransactionManager, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	tx, err := txMgr.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx.Context(), tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		// The caller's DomainError passes through untouched so handlers can
		// still map it to a status code
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
