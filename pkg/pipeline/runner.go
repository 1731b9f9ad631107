// pkg/pipeline/runner.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hollis-data/banking-etl/pkg/config"
	"github.com/hollis-data/banking-etl/pkg/connector"
	"github.com/hollis-data/banking-etl/pkg/model"
)

// Validator checks that the warehouse carries every required object
type Validator interface {
	HealthCheck(ctx context.Context, pipe *config.PipelineConfig) ([]connector.RequiredTable, error)
}

// Transformer runs the transform stage
type Transformer interface {
	Run(ctx context.Context) (model.TransformResult, error)
}

// Loader runs the fact load stage
type Loader interface {
	Run(ctx context.Context, batchID string) (model.LoadResult, error)
}

// QualityRunner evaluates data quality for a batch
type QualityRunner interface {
	Run(ctx context.Context, batchID string, sample *model.TableSample) (bool, []model.QualityMetric, error)
}

// Store is the persistence surface the pipeline runner needs
type Store interface {
	CountRows(ctx context.Context, qualifiedTable string) (int64, error)
	AppendMetrics(ctx context.Context, batchID string, metrics []model.QualityMetric) error
	AppendExecutionLog(ctx context.Context, entry model.ExecutionLogEntry) error
}

// Runner executes the pipeline stages in their fixed linear order:
// validate, transform, load, smoke counts, quality. Every step lands as
// a row in the execution log, plus one summary row per batch. A step
// failure stops the run; committed earlier steps stand and the next run
// resumes from whatever staging still holds.
type Runner struct {
	validator   Validator
	transformer Transformer
	loader      Loader
	quality     QualityRunner
	store       Store
	pipe        *config.PipelineConfig
	logger      *zap.Logger
}

// NewRunner creates a new pipeline runner
func NewRunner(
	validator Validator,
	transformer Transformer,
	loader Loader,
	quality QualityRunner,
	store Store,
	pipe *config.PipelineConfig,
	logger *zap.Logger,
) (*Runner, error) {
	if validator == nil {
		return nil, errors.New("validator cannot be nil")
	}
	if transformer == nil {
		return nil, errors.New("transformer cannot be nil")
	}
	if loader == nil {
		return nil, errors.New("loader cannot be nil")
	}
	if quality == nil {
		return nil, errors.New("quality runner cannot be nil")
	}
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if pipe == nil {
		return nil, errors.New("pipeline config cannot be nil")
	}
	if logger == nil {
		logger = zap.L().Named("pipeline")
	}

	return &Runner{
		validator:   validator,
		transformer: transformer,
		loader:      loader,
		quality:     quality,
		store:       store,
		pipe:        pipe,
		logger:      logger,
	}, nil
}

// Run executes one full pipeline pass under a fresh batch id
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{BatchID: NewBatchID()}
	startedAt := time.Now().UTC()

	r.logger.Info("Pipeline starting",
		zap.String("pipeline", r.pipe.PipelineName),
		zap.String("batch_id", report.BatchID))

	err := r.step(ctx, report, StepValidate, func(stepCtx context.Context) error {
		_, err := r.validator.HealthCheck(stepCtx, r.pipe)
		return err
	})
	if err != nil {
		return report, err
	}

	err = r.step(ctx, report, StepTransform, func(stepCtx context.Context) error {
		result, err := r.transformer.Run(stepCtx)
		report.Transform = result
		return err
	})
	if err != nil {
		return report, err
	}

	err = r.step(ctx, report, StepLoad, func(stepCtx context.Context) error {
		result, err := r.loader.Run(stepCtx, report.BatchID)
		report.Load = result
		return err
	})
	if err != nil {
		return report, err
	}

	err = r.step(ctx, report, StepSmoke, func(stepCtx context.Context) error {
		return r.smokeCounts(stepCtx, report.BatchID)
	})
	if err != nil {
		return report, err
	}

	err = r.step(ctx, report, StepQuality, func(stepCtx context.Context) error {
		passed, metrics, err := r.quality.Run(stepCtx, report.BatchID, nil)
		report.QualityPassed = passed
		report.Metrics = metrics
		return err
	})
	if err != nil {
		return report, err
	}

	// Summary row: the batch succeeded; failed quality downgrades it to
	// a warning rather than a failure, since every stage committed.
	report.Status = model.ExecutionSuccess
	if !report.QualityPassed {
		report.Status = model.ExecutionWarning
	}

	finishedAt := time.Now().UTC()
	summary := model.ExecutionLogEntry{
		BatchID:         report.BatchID,
		PipelineName:    r.pipe.PipelineName,
		TaskName:        SummaryTask,
		ExecutionStart:  startedAt,
		ExecutionEnd:    finishedAt,
		ExecutionStatus: report.Status,
		RowsExtracted:   int64(report.Transform.Consumed()),
		RowsTransformed: int64(report.Transform.Transformed),
		RowsLoaded:      report.Load.RowsLoaded,
		RowsRejected:    int64(report.Transform.Rejected),
		DurationSeconds: finishedAt.Sub(startedAt).Seconds(),
	}
	if err := r.store.AppendExecutionLog(ctx, summary); err != nil {
		return report, fmt.Errorf("failed to record pipeline summary: %w", err)
	}

	r.logger.Info("Pipeline complete",
		zap.String("batch_id", report.BatchID),
		zap.String("status", report.Status),
		zap.Int("rows_transformed", report.Transform.Transformed),
		zap.Int("rows_rejected", report.Transform.Rejected),
		zap.Int64("rows_loaded", report.Load.RowsLoaded),
		zap.Bool("quality_passed", report.QualityPassed),
		zap.Duration("elapsed", finishedAt.Sub(startedAt)))

	return report, nil
}

// step runs one pipeline step, times it, and appends its execution log
// row. A failing step is logged FAILED on a best effort basis before the
// error propagates.
func (r *Runner) step(ctx context.Context, report *Report, name string, fn func(ctx context.Context) error) error {
	result := newStepResult(name)

	r.logger.Info("Step starting",
		zap.String("step", name),
		zap.String("step_id", result.ID),
		zap.String("batch_id", report.BatchID))

	err := fn(ctx)
	result.complete(err)
	report.Steps = append(report.Steps, result)

	entry := model.ExecutionLogEntry{
		BatchID:         report.BatchID,
		PipelineName:    r.pipe.PipelineName,
		TaskName:        name,
		ExecutionStart:  result.StartedAt,
		ExecutionEnd:    result.FinishedAt,
		ExecutionStatus: model.ExecutionSuccess,
		DurationSeconds: result.Duration.Seconds(),
	}

	switch name {
	case StepTransform:
		entry.RowsExtracted = int64(report.Transform.Consumed())
		entry.RowsTransformed = int64(report.Transform.Transformed)
		entry.RowsRejected = int64(report.Transform.Rejected)
	case StepLoad:
		entry.RowsLoaded = report.Load.RowsLoaded
	}

	if err != nil {
		entry.ExecutionStatus = model.ExecutionFailed

		r.logger.Error("Step failed",
			zap.String("step", name),
			zap.String("batch_id", report.BatchID),
			zap.Error(err))

		if logErr := r.store.AppendExecutionLog(ctx, entry); logErr != nil {
			r.logger.Error("Failed to record failed step",
				zap.String("step", name),
				zap.Error(logErr))
		}

		return fmt.Errorf("pipeline step %s failed: %w", name, err)
	}

	if logErr := r.store.AppendExecutionLog(ctx, entry); logErr != nil {
		return fmt.Errorf("failed to record step %s: %w", name, logErr)
	}

	r.logger.Info("Step complete",
		zap.String("step", name),
		zap.Duration("elapsed", result.Duration))

	return nil
}

// smokeCounts persists the row counts of the three pipeline tables as
// PASS metrics, a cheap end-to-end signal that data actually moved
func (r *Runner) smokeCounts(ctx context.Context, batchID string) error {
	smoke := []struct {
		table  string
		metric string
	}{
		{r.pipe.StagingTable(), model.MetricSmokeCountRaw},
		{r.pipe.CleanedTable(), model.MetricSmokeCountCleaned},
		{r.pipe.FactTable(), model.MetricSmokeCountFact},
	}

	metrics := make([]model.QualityMetric, 0, len(smoke))
	for _, probe := range smoke {
		count, err := r.store.CountRows(ctx, probe.table)
		if err != nil {
			return err
		}

		metrics = append(metrics, model.QualityMetric{
			Table:       probe.table,
			Name:        probe.metric,
			Value:       model.FloatValue(float64(count)),
			Status:      model.StatusPass,
			RecordCount: count,
			Detail:      fmt.Sprintf("Smoke count for %s", probe.table),
		})
	}

	return r.store.AppendMetrics(ctx, batchID, metrics)
}
