// pkg/transform/orchestrator.go
package transform

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hollis-data/banking-etl/pkg/cleaner"
	"github.com/hollis-data/banking-etl/pkg/config"
	"github.com/hollis-data/banking-etl/pkg/model"
)

// Store is the persistence surface the orchestrator needs
type Store interface {
	FetchUnprocessed(ctx context.Context, limit int) ([]model.StagedRow, error)
	MarkProcessed(ctx context.Context, ids []int64) (int64, error)
	InsertCleanedRows(ctx context.Context, rows []model.CleanedRow) (int64, error)
	UpsertCustomers(ctx context.Context, customers []model.DimCustomer) error
	UpsertProducts(ctx context.Context, products []model.DimProduct) error
	UpsertBranches(ctx context.Context, branches []model.DimBranch) error
	UpsertDates(ctx context.Context, dates []model.DimDate) error
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Orchestrator runs the transform stage: pull one window of unprocessed
// staged rows, clean it, commit the survivors, consume the sources, and
// refresh the dimensions from the cleaned batch.
type Orchestrator struct {
	store   Store
	cleaner *cleaner.RowCleaner
	pipe    *config.PipelineConfig
	logger  *zap.Logger
}

// NewOrchestrator creates a new transform orchestrator
func NewOrchestrator(store Store, rowCleaner *cleaner.RowCleaner, pipe *config.PipelineConfig, logger *zap.Logger) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if rowCleaner == nil {
		return nil, errors.New("row cleaner cannot be nil")
	}
	if pipe == nil {
		return nil, errors.New("pipeline config cannot be nil")
	}
	if logger == nil {
		logger = zap.L().Named("transform")
	}

	return &Orchestrator{
		store:   store,
		cleaner: rowCleaner,
		pipe:    pipe,
		logger:  logger,
	}, nil
}

// Run executes one transform pass. The cleaned rows and the processed
// flags of every consumed staging row commit in a single transaction, so
// a failure leaves the whole window eligible for the next run. Dimension
// upserts follow in their own transaction; cleaned-row inserts are
// idempotent on source_row_id, which makes the whole pass re-entrant.
func (o *Orchestrator) Run(ctx context.Context) (model.TransformResult, error) {
	var result model.TransformResult

	batch, err := o.store.FetchUnprocessed(ctx, o.pipe.StagingFetchLimit)
	if err != nil {
		return result, fmt.Errorf("transform failed: %w", err)
	}

	if len(batch) == 0 {
		o.logger.Info("No unprocessed staged rows, nothing to transform")
		return result, nil
	}

	// The staging ids are remembered up front; rejected rows are marked
	// processed too, so a bad row is consumed once, never retried.
	sourceIDs := make([]int64, len(batch))
	for i, row := range batch {
		sourceIDs[i] = row.ID
	}

	cleaned := o.cleaner.Clean(batch)
	result.Transformed = len(cleaned.Rows)
	result.Rejected = len(batch) - len(cleaned.Rows)

	for _, dropped := range cleaned.Dropped {
		o.logger.Debug("Rejected staged row",
			zap.Int64("source_row_id", dropped.SourceRowID),
			zap.String("reason", dropped.Reason.String()),
			zap.String("detail", dropped.Detail))
	}

	err = o.store.InTransaction(ctx, func(txCtx context.Context) error {
		inserted, err := o.store.InsertCleanedRows(txCtx, cleaned.Rows)
		if err != nil {
			return err
		}

		marked, err := o.store.MarkProcessed(txCtx, sourceIDs)
		if err != nil {
			return err
		}

		o.logger.Debug("Committed cleaned batch",
			zap.Int64("rows_inserted", inserted),
			zap.Int64("rows_marked", marked))

		return nil
	})
	if err != nil {
		return model.TransformResult{}, fmt.Errorf("transform failed: %w", err)
	}

	if err := o.populateDimensions(ctx, cleaned.Rows); err != nil {
		// The batch commit stands; the upserts rerun on the next pass.
		return result, fmt.Errorf("dimension population failed: %w", err)
	}

	o.logger.Info("Transform complete",
		zap.Int("rows_transformed", result.Transformed),
		zap.Int("rows_rejected", result.Rejected))

	return result, nil
}

// populateDimensions derives the distinct dimension records from the
// cleaned batch and upserts all four dimensions in one transaction
func (o *Orchestrator) populateDimensions(ctx context.Context, rows []model.CleanedRow) error {
	if len(rows) == 0 {
		return nil
	}

	records := deriveDimensions(rows)

	err := o.store.InTransaction(ctx, func(txCtx context.Context) error {
		if err := o.store.UpsertCustomers(txCtx, records.Customers); err != nil {
			return err
		}
		if err := o.store.UpsertProducts(txCtx, records.Products); err != nil {
			return err
		}
		if err := o.store.UpsertBranches(txCtx, records.Branches); err != nil {
			return err
		}
		return o.store.UpsertDates(txCtx, records.Dates)
	})
	if err != nil {
		return err
	}

	o.logger.Info("Dimensions populated",
		zap.Int("customers", len(records.Customers)),
		zap.Int("products", len(records.Products)),
		zap.Int("branches", len(records.Branches)),
		zap.Int("dates", len(records.Dates)))

	return nil
}
