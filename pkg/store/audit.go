// pkg/store/audit.go
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/hollis-data/banking-etl/pkg/model"
)

// AppendMetrics persists quality metrics for a batch. Metrics are
// append-only; a rerun of the same batch writes new rows.
func (s *Store) AppendMetrics(ctx context.Context, batchID string, metrics []model.QualityMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.data_quality_metrics
		(etl_batch_id, table_name, metric_name, metric_value, metric_percentage,
		 record_count, quality_status, metric_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, s.pipe.AuditSchema)

	exec := s.executor(ctx)
	for _, m := range metrics {
		// A metric without its own percentage reports its value there,
		// so percentage-based dashboards see every metric.
		percentage := m.Percentage
		if !percentage.Valid {
			percentage = m.Value
		}

		_, err := exec.ExecContext(ctx, query,
			batchID,
			m.Table,
			m.Name,
			m.Value,
			percentage,
			m.RecordCount,
			m.Status.String(),
			m.Detail,
		)
		if err != nil {
			return fmt.Errorf("failed to store quality metric %s: %w", m.Name, err)
		}
	}

	s.logger.Debug("Stored quality metrics",
		zap.Int("metric_count", len(metrics)),
		zap.String("batch_id", batchID))

	return nil
}

// AppendExecutionLog writes one execution log row
func (s *Store) AppendExecutionLog(ctx context.Context, entry model.ExecutionLogEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s.etl_execution_log
		(etl_batch_id, pipeline_name, task_name, execution_start, execution_end,
		 execution_status, rows_extracted, rows_transformed, rows_loaded, rows_rejected,
		 execution_duration_seconds)
		VALUES (:etl_batch_id, :pipeline_name, :task_name, :execution_start, :execution_end,
		 :execution_status, :rows_extracted, :rows_transformed, :rows_loaded, :rows_rejected,
		 :execution_duration_seconds)`, s.pipe.AuditSchema)

	if _, err := sqlx.NamedExecContext(ctx, s.executor(ctx), query, entry); err != nil {
		return fmt.Errorf("failed to append execution log: %w", err)
	}

	return nil
}

// RecentMetrics reads the latest persisted quality metrics, newest first
func (s *Store) RecentMetrics(ctx context.Context, limit int) ([]model.MetricRecord, error) {
	query := fmt.Sprintf(`
		SELECT etl_batch_id, table_name, metric_name, metric_value, metric_percentage,
		       record_count, quality_status, COALESCE(metric_description, '') AS metric_description,
		       created_at
		FROM %s.data_quality_metrics
		ORDER BY created_at DESC
		LIMIT $1`, s.pipe.AuditSchema)

	var records []model.MetricRecord
	if err := sqlx.SelectContext(ctx, s.executor(ctx), &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch quality metrics: %w", err)
	}

	return records, nil
}
