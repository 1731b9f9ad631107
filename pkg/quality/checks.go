// pkg/quality/checks.go
package quality

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hollis-data/banking-etl/pkg/model"
)

// The check battery. Every check produces exactly one metric; a non-nil
// error is converted into an ERROR metric by the runner, so a failing
// check never aborts its siblings.

// CheckCompleteness measures the share of populated cells across the
// whole sample. An empty sample reports 0% complete.
func CheckCompleteness(sample *model.TableSample, minPct float64) (model.QualityMetric, error) {
	if sample == nil {
		return model.QualityMetric{}, errors.New("sample cannot be nil")
	}

	totalCells := sample.RowCount() * len(sample.Columns)

	nullCells := 0
	for col := range sample.Columns {
		nullCells += sample.NullCount(col)
	}

	completeness := 0.0
	if totalCells > 0 {
		completeness = float64(totalCells-nullCells) / float64(totalCells) * 100
	}
	completeness = round2(completeness)

	status := model.StatusPass
	if completeness < minPct {
		status = model.StatusFail
	}

	return model.QualityMetric{
		Table:       sample.Table,
		Name:        model.MetricCompleteness,
		Value:       model.FloatValue(completeness),
		Threshold:   model.FloatValue(minPct),
		Status:      status,
		RecordCount: int64(sample.RowCount()),
		Detail:      fmt.Sprintf("%.2f%% of %d cells populated", completeness, totalCells),
	}, nil
}

// CheckNullPercentages averages the per-column null rate, unweighted
// across columns. A zero-row sample counts every column as fully null.
func CheckNullPercentages(sample *model.TableSample, maxPct float64) (model.QualityMetric, error) {
	if sample == nil {
		return model.QualityMetric{}, errors.New("sample cannot be nil")
	}

	rows := sample.RowCount()

	var sum float64
	details := make([]string, 0, len(sample.Columns))
	for i, col := range sample.Columns {
		rate := 100.0
		if rows > 0 {
			rate = float64(sample.NullCount(i)) / float64(rows) * 100
		}
		sum += rate
		details = append(details, fmt.Sprintf("%s=%.2f%%", col, rate))
	}

	avg := 0.0
	if len(sample.Columns) > 0 {
		avg = round2(sum / float64(len(sample.Columns)))
	}

	status := model.StatusPass
	if avg > maxPct {
		status = model.StatusFail
	}

	return model.QualityMetric{
		Table:       sample.Table,
		Name:        model.MetricNullPercentage,
		Value:       model.FloatValue(avg),
		Threshold:   model.FloatValue(maxPct),
		Status:      status,
		RecordCount: int64(rows),
		Detail:      strings.Join(details, ", "),
	}, nil
}

// CheckDuplicates counts the rows participating in any duplicate group
// over the key columns; both occurrences of a pair count, not just the
// extras. A missing key column skips the check instead of reporting a
// hollow pass.
func CheckDuplicates(sample *model.TableSample, keyColumns []string) (model.QualityMetric, error) {
	if sample == nil {
		return model.QualityMetric{}, errors.New("sample cannot be nil")
	}

	indexes := make([]int, 0, len(keyColumns))
	for _, col := range keyColumns {
		idx := sample.ColumnIndex(col)
		if idx < 0 {
			return model.QualityMetric{
				Table:  sample.Table,
				Name:   model.MetricDuplicates,
				Status: model.StatusSkipped,
				Detail: fmt.Sprintf("key column %s not in sample", col),
			}, nil
		}
		indexes = append(indexes, idx)
	}

	groups := make(map[string]int64, sample.RowCount())
	for _, row := range sample.Rows {
		groups[duplicateKey(row, indexes)]++
	}

	var duplicates int64
	for _, n := range groups {
		if n > 1 {
			duplicates += n
		}
	}

	rows := sample.RowCount()
	pct := 0.0
	if rows > 0 {
		pct = round2(float64(duplicates) / float64(rows) * 100)
	}

	status := model.StatusPass
	if duplicates > 0 {
		status = model.StatusWarning
	}

	return model.QualityMetric{
		Table:       sample.Table,
		Name:        model.MetricDuplicates,
		Value:       model.FloatValue(float64(duplicates)),
		Percentage:  model.FloatValue(pct),
		Status:      status,
		RecordCount: int64(rows),
		Detail:      fmt.Sprintf("%d duplicate rows over key (%s)", duplicates, strings.Join(keyColumns, ", ")),
	}, nil
}

// CheckSchema validates the sample's columns and type names against an
// expected column to type-substring mapping
func CheckSchema(sample *model.TableSample, expected map[string]string) (model.QualityMetric, error) {
	if sample == nil {
		return model.QualityMetric{}, errors.New("sample cannot be nil")
	}

	columns := make([]string, 0, len(expected))
	for col := range expected {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	var schemaErrors []string
	for _, col := range columns {
		idx := sample.ColumnIndex(col)
		if idx < 0 {
			schemaErrors = append(schemaErrors, fmt.Sprintf("missing column: %s", col))
			continue
		}

		actual := ""
		if idx < len(sample.Types) {
			actual = sample.Types[idx]
		}
		if !strings.Contains(strings.ToUpper(actual), strings.ToUpper(expected[col])) {
			schemaErrors = append(schemaErrors,
				fmt.Sprintf("column %s: expected %s, got %s", col, expected[col], actual))
		}
	}

	status := model.StatusPass
	detail := fmt.Sprintf("all %d expected columns match", len(expected))
	if len(schemaErrors) > 0 {
		status = model.StatusFail
		detail = strings.Join(schemaErrors, "; ")
	}

	return model.QualityMetric{
		Table:       sample.Table,
		Name:        model.MetricSchemaValidation,
		Value:       model.FloatValue(float64(len(schemaErrors))),
		Status:      status,
		RecordCount: int64(sample.RowCount()),
		Detail:      detail,
	}, nil
}

// CheckReferentialIntegrity judges a set of executed orphan probes. A
// probe that failed to execute is an error for the whole check; a probe
// that ran and found orphans only degrades the status to WARNING.
func CheckReferentialIntegrity(table string, results []model.ProbeResult) (model.QualityMetric, error) {
	var entries []string
	var orphans int64

	for _, res := range results {
		if res.Err != nil {
			return model.QualityMetric{}, fmt.Errorf("probe %s failed: %w", res.Probe.Name, res.Err)
		}
		if res.Orphans > 0 {
			orphans += res.Orphans
			entries = append(entries, fmt.Sprintf("%s: %d orphaned rows", res.Probe.Name, res.Orphans))
		}
	}

	status := model.StatusPass
	detail := fmt.Sprintf("no orphans across %d probes", len(results))
	if len(entries) > 0 {
		status = model.StatusWarning
		detail = strings.Join(entries, "; ")
	}

	return model.QualityMetric{
		Table:  table,
		Name:   model.MetricReferentialIntegrity,
		Value:  model.FloatValue(float64(orphans)),
		Status: status,
		Detail: detail,
	}, nil
}

// Helper functions

// duplicateKey builds a composite grouping key from the key columns of
// one row. Null values group together.
func duplicateKey(row []interface{}, indexes []int) string {
	parts := make([]string, len(indexes))
	for i, idx := range indexes {
		if idx < len(row) {
			parts[i] = fmt.Sprintf("%v", row[idx])
		}
	}
	return strings.Join(parts, "|")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
