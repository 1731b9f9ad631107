// pkg/store/tx.go
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// transactionContextKey is the context key under which an open
// transaction travels
type transactionContextKey struct{}

// InTransaction runs fn inside a database transaction. The transaction
// rides on the context, so every store method called from fn joins it
// automatically. A nested call reuses the outer transaction.
func (s *Store) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(transactionContextKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, transactionContextKey{}, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Failed to rollback transaction",
				zap.Error(rbErr),
				zap.NamedError("original_error", err))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// executor returns the transaction carried by the context when present,
// otherwise the connection pool
func (s *Store) executor(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(transactionContextKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return s.db
}
