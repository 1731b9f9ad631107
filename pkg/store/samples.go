// pkg/store/samples.go
package store

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hollis-data/banking-etl/pkg/model"
)

// FetchRecentSample reads the newest rows of a table into a generic
// sample for quality evaluation. Only the requested columns are read,
// and the database type name of each column travels with the sample.
func (s *Store) FetchRecentSample(ctx context.Context, qualifiedTable string, columns []string, limit int) (*model.TableSample, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY created_at DESC
		LIMIT $1`, strings.Join(columns, ", "), qualifiedTable)

	rows, err := s.executor(ctx).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sample %s: %w", qualifiedTable, err)
	}
	defer rows.Close()

	colNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read sample columns: %w", err)
	}

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read sample column types: %w", err)
	}

	typeNames := make([]string, len(colTypes))
	for i, ct := range colTypes {
		typeNames[i] = ct.DatabaseTypeName()
	}

	sample := &model.TableSample{
		Table:   qualifiedTable,
		Columns: colNames,
		Types:   typeNames,
	}

	values := make([]interface{}, len(colNames))
	scanArgs := make([]interface{}, len(colNames))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan sample row: %w", err)
		}

		row := make([]interface{}, len(colNames))
		for i, v := range values {
			// Text columns arrive as raw bytes through the generic scan
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			} else {
				row[i] = v
			}
		}
		sample.Rows = append(sample.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sample rows: %w", err)
	}

	s.logger.Debug("Fetched table sample",
		zap.String("table", qualifiedTable),
		zap.Int("row_count", len(sample.Rows)))

	return sample, nil
}
