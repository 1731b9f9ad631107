// pkg/model/audit.go
package model

import (
	"database/sql"
	"time"
)

// Execution statuses recorded in audit.etl_execution_log
const (
	ExecutionSuccess = "SUCCESS"
	ExecutionWarning = "WARNING"
	ExecutionFailed  = "FAILED"
)

// MetricRecord is a persisted row of audit.data_quality_metrics, read
// back for reporting.
type MetricRecord struct {
	BatchID     string          `db:"etl_batch_id"`
	TableName   string          `db:"table_name"`
	MetricName  string          `db:"metric_name"`
	Value       sql.NullFloat64 `db:"metric_value"`
	Percentage  sql.NullFloat64 `db:"metric_percentage"`
	RecordCount int64           `db:"record_count"`
	Status      string          `db:"quality_status"`
	Description sql.NullString  `db:"metric_description"`
	CreatedAt   time.Time       `db:"created_at"`
}

// ExecutionLogEntry is one append-only row in audit.etl_execution_log,
// written per pipeline task plus one summary row per batch.
type ExecutionLogEntry struct {
	BatchID         string    `db:"etl_batch_id"`
	PipelineName    string    `db:"pipeline_name"`
	TaskName        string    `db:"task_name"`
	ExecutionStart  time.Time `db:"execution_start"`
	ExecutionEnd    time.Time `db:"execution_end"`
	ExecutionStatus string    `db:"execution_status"`
	RowsExtracted   int64     `db:"rows_extracted"`
	RowsTransformed int64     `db:"rows_transformed"`
	RowsLoaded      int64     `db:"rows_loaded"`
	RowsRejected    int64     `db:"rows_rejected"`
	DurationSeconds float64   `db:"execution_duration_seconds"`
}
