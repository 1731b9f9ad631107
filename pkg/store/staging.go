// pkg/store/staging.go
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/hollis-data/banking-etl/pkg/model"
)

// FetchUnprocessed reads staged rows that have not been through the
// transform yet, oldest first
func (s *Store) FetchUnprocessed(ctx context.Context, limit int) ([]model.StagedRow, error) {
	query := fmt.Sprintf(`
		SELECT
			id,
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
			branch_location
		FROM %s
		WHERE COALESCE(is_processed, FALSE) = FALSE
		ORDER BY id
		LIMIT $1`, s.pipe.StagingTable())

	var rows []model.StagedRow
	if err := sqlx.SelectContext(ctx, s.executor(ctx), &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch staged rows: %w", err)
	}

	s.logger.Debug("Fetched staged rows",
		zap.Int("row_count", len(rows)),
		zap.Int("limit", limit))

	return rows, nil
}

// MarkProcessed flags the given staging rows as consumed so a rerun
// does not pick them up again
func (s *Store) MarkProcessed(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET is_processed = TRUE, processed_at = CURRENT_TIMESTAMP
		WHERE id = ANY($1)`, s.pipe.StagingTable())

	result, err := s.executor(ctx).ExecContext(ctx, query, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to mark staged rows processed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected row count: %w", err)
	}

	return affected, nil
}
