// pkg/model/quality.go
package model

import (
	"database/sql"
	"fmt"
	"time"
)

// Status is the outcome of a quality check. Severity is ordered: a batch
// folds to the worst status observed across its metrics.
type Status int

const (
	// Statuses with increasing severity
	StatusPass Status = iota
	StatusWarning
	StatusFail
	StatusError

	// StatusSkipped marks a check that could not run. It sits outside the
	// severity order and never raises a fold.
	StatusSkipped
)

// String returns a string representation of the status
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusWarning:
		return "WARNING"
	case StatusFail:
		return "FAIL"
	case StatusError:
		return "ERROR"
	case StatusSkipped:
		return "SKIPPED"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// ParseStatus converts a persisted status string back to a Status
func ParseStatus(s string) (Status, error) {
	switch s {
	case "PASS":
		return StatusPass, nil
	case "WARNING":
		return StatusWarning, nil
	case "FAIL":
		return StatusFail, nil
	case "ERROR":
		return StatusError, nil
	case "SKIPPED":
		return StatusSkipped, nil
	default:
		return StatusError, fmt.Errorf("unknown quality status %q", s)
	}
}

// Metric names persisted to audit.data_quality_metrics
const (
	MetricCompleteness         = "COMPLETENESS_PCT"
	MetricNullPercentage       = "NULL_PERCENTAGE"
	MetricDuplicates           = "DUPLICATES"
	MetricSchemaValidation     = "SCHEMA_VALIDATION"
	MetricReferentialIntegrity = "REFERENTIAL_INTEGRITY"
	MetricSmokeCountRaw        = "SMOKE_COUNT_RAW"
	MetricSmokeCountCleaned    = "SMOKE_COUNT_CLEANED"
	MetricSmokeCountFact       = "SMOKE_COUNT_FACT"
)

// QualityMetric is one immutable check outcome. Value, Percentage and
// Threshold are null when the check has no number to report.
type QualityMetric struct {
	Table       string
	Name        string
	Value       sql.NullFloat64
	Percentage  sql.NullFloat64
	Threshold   sql.NullFloat64
	Status      Status
	RecordCount int64
	Detail      string
}

// FloatValue builds a valid nullable float
func FloatValue(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

// QualityRun groups the metrics of one batch evaluation. It is finalized
// once and appended to the audit schema, never updated.
type QualityRun struct {
	BatchID    string
	Metrics    []QualityMetric
	Overall    Status
	StartedAt  time.Time
	FinishedAt time.Time
}

// OrphanProbe describes a referential integrity probe: count fact rows
// whose foreign key has no matching dimension row.
type OrphanProbe struct {
	Name      string // e.g. "fact_customers"
	FactTable string
	DimTable  string
	FactKey   string
	DimKey    string
}

// ProbeResult carries the outcome of one executed probe. Err records an
// execution failure, distinct from a probe that ran and found orphans.
type ProbeResult struct {
	Probe   OrphanProbe
	Orphans int64
	Err     error
}
