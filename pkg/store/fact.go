// pkg/store/fact.go
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/hollis-data/banking-etl/pkg/model"
)

// InsertFacts moves every cleaned row that has not been loaded yet into
// the fact table, resolving dimension keys as it goes. Customer, product,
// and time keys fall back to the warehouse default record (key 1) when
// the dimension row is missing; the branch key stays NULL so an
// unresolved branch remains visible.
func (s *Store) InsertFacts(ctx context.Context, batchID string) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s.fact_transactions
		(
			customer_key,
			product_key,
			time_key,
			branch_key,
			transaction_id,
			account_id,
			transaction_amount,
			transaction_type,
			account_type,
			account_status,
			transaction_date,
			transaction_timestamp,
			is_duplicate,
			data_quality_score,
			etl_batch_id
		)
		SELECT
			COALESCE(c.customer_key, 1),
			COALESCE(p.product_key, 1),
			COALESCE(t.time_key, 1),
			b.branch_key,
			s.transaction_id,
			s.customer_id AS account_id,
			CAST(s.transaction_amount AS NUMERIC(18, 2)),
			s.transaction_type,
			s.account_type,
			s.account_status,
			CAST(s.transaction_date AS DATE),
			CURRENT_TIMESTAMP,
			FALSE,
			0.95,
			$1
		FROM %[2]s s
		LEFT JOIN %[1]s.dim_customers c
			ON s.customer_id = c.customer_id
		LEFT JOIN %[1]s.dim_products p
			ON s.product_type = p.product_type
		LEFT JOIN %[1]s.dim_time t
			ON CAST(s.transaction_date AS DATE) = t.date
		LEFT JOIN %[1]s.dim_branches b
			ON s.branch_id = b.branch_id
		WHERE COALESCE(s.is_loaded, FALSE) = FALSE
		ON CONFLICT (transaction_id) DO NOTHING`,
		s.pipe.WarehouseSchema, s.pipe.CleanedTable())

	result, err := s.executor(ctx).ExecContext(ctx, query, batchID)
	if err != nil {
		return 0, fmt.Errorf("failed to load fact table: %w", err)
	}

	loaded, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected row count: %w", err)
	}

	s.logger.Debug("Loaded fact rows",
		zap.Int64("row_count", loaded),
		zap.String("batch_id", batchID))

	return loaded, nil
}

// CountRows returns the row count of a table. The qualified name comes
// from configuration, never from user input.
func (s *Store) CountRows(ctx context.Context, qualifiedTable string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", qualifiedTable)

	var count int64
	if err := sqlx.GetContext(ctx, s.executor(ctx), &count, query); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", qualifiedTable, err)
	}

	return count, nil
}

// CountOrphans counts fact rows whose foreign key resolves to no
// dimension row
func (s *Store) CountOrphans(ctx context.Context, probe model.OrphanProbe) (int64, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s f
		LEFT JOIN %s d ON f.%s = d.%s
		WHERE f.%s IS NOT NULL AND d.%s IS NULL`,
		probe.FactTable, probe.DimTable,
		probe.FactKey, probe.DimKey,
		probe.FactKey, probe.DimKey)

	var orphans int64
	if err := sqlx.GetContext(ctx, s.executor(ctx), &orphans, query); err != nil {
		return 0, fmt.Errorf("failed to probe %s: %w", probe.Name, err)
	}

	return orphans, nil
}
