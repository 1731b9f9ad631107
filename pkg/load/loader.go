// pkg/load/loader.go
package load

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hollis-data/banking-etl/pkg/config"
	"github.com/hollis-data/banking-etl/pkg/model"
)

// Store is the persistence surface the loader needs
type Store interface {
	CountRows(ctx context.Context, qualifiedTable string) (int64, error)
	InsertFacts(ctx context.Context, batchID string) (int64, error)
	MarkCleanedLoaded(ctx context.Context) (int64, error)
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Loader runs the load stage: verify the dimensions carry rows, move
// unloaded cleaned rows into the fact table, and flag them loaded. The
// fact insert is idempotent on transaction_id, so a rerun after a
// partial failure is safe.
type Loader struct {
	store  Store
	pipe   *config.PipelineConfig
	logger *zap.Logger
}

// NewLoader creates a new fact loader
func NewLoader(store Store, pipe *config.PipelineConfig, logger *zap.Logger) (*Loader, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if pipe == nil {
		return nil, errors.New("pipeline config cannot be nil")
	}
	if logger == nil {
		logger = zap.L().Named("load")
	}

	return &Loader{
		store:  store,
		pipe:   pipe,
		logger: logger,
	}, nil
}

// dimensionTables lists the dimensions verified before the fact load
var dimensionTables = []string{
	"dim_customers", "dim_products", "dim_branches", "dim_time",
}

// Run executes one load pass for a batch. The fact insert and the
// loaded-flag update commit together; either both land or neither does.
func (l *Loader) Run(ctx context.Context, batchID string) (model.LoadResult, error) {
	result := model.LoadResult{
		DimensionCounts: make(map[string]int64, len(dimensionTables)),
	}

	for _, table := range dimensionTables {
		qualified := l.pipe.WarehouseSchema + "." + table
		count, err := l.store.CountRows(ctx, qualified)
		if err != nil {
			return result, fmt.Errorf("load failed: %w", err)
		}
		result.DimensionCounts[table] = count

		if count == 0 {
			l.logger.Warn("Dimension table is empty",
				zap.String("table", qualified))
		}
	}

	err := l.store.InTransaction(ctx, func(txCtx context.Context) error {
		loaded, err := l.store.InsertFacts(txCtx, batchID)
		if err != nil {
			return err
		}
		result.RowsLoaded = loaded

		marked, err := l.store.MarkCleanedLoaded(txCtx)
		if err != nil {
			return err
		}
		result.RowsMarked = marked

		return nil
	})
	if err != nil {
		return model.LoadResult{DimensionCounts: result.DimensionCounts}, fmt.Errorf("load failed: %w", err)
	}

	l.logger.Info("Load complete",
		zap.String("batch_id", batchID),
		zap.Int64("rows_loaded", result.RowsLoaded),
		zap.Int64("rows_marked", result.RowsMarked))

	return result, nil
}
