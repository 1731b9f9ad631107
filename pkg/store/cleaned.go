// pkg/store/cleaned.go
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/hollis-data/banking-etl/pkg/model"
)

// InsertCleanedRows writes cleaned rows into the cleaned staging table
// in batches. Rows whose source_row_id is already present are skipped,
// which keeps reruns of the same staging window idempotent.
func (s *Store) InsertCleanedRows(ctx context.Context, rows []model.CleanedRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s
		(
			source_row_id,
			customer_id,
			transaction_id,
			transaction_date,
			product_type,
			transaction_amount,
			transaction_type,
			account_type,
			account_status,
			customer_name,
			customer_email,
			customer_phone,
			customer_age,
			customer_segment,
			branch_id,
			branch_location,
			is_loaded
		)
		VALUES
		(
			:source_row_id,
			:customer_id,
			:transaction_id,
			:transaction_date,
			:product_type,
			:transaction_amount,
			:transaction_type,
			:account_type,
			:account_status,
			:customer_name,
			:customer_email,
			:customer_phone,
			:customer_age,
			:customer_segment,
			:branch_id,
			:branch_location,
			FALSE
		)
		ON CONFLICT (source_row_id) DO NOTHING`, s.pipe.CleanedTable())

	batchSize := s.pipe.BatchSize
	if batchSize <= 0 {
		batchSize = len(rows)
	}

	var inserted int64
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		result, err := sqlx.NamedExecContext(ctx, s.executor(ctx), query, rows[start:end])
		if err != nil {
			return inserted, fmt.Errorf("failed to insert cleaned rows: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to read affected row count: %w", err)
		}
		inserted += affected
	}

	s.logger.Debug("Inserted cleaned rows",
		zap.Int("row_count", len(rows)),
		zap.Int64("inserted", inserted))

	return inserted, nil
}

// MarkCleanedLoaded flags cleaned rows whose transaction made it into
// the fact table
func (s *Store) MarkCleanedLoaded(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s s
		SET is_loaded = TRUE, loaded_at = CURRENT_TIMESTAMP
		WHERE COALESCE(s.is_loaded, FALSE) = FALSE
		  AND EXISTS (
			SELECT 1
			FROM %s f
			WHERE f.transaction_id = s.transaction_id
		  )`, s.pipe.CleanedTable(), s.pipe.FactTable())

	result, err := s.executor(ctx).ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to mark cleaned rows loaded: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected row count: %w", err)
	}

	return affected, nil
}
