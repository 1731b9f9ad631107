// pkg/quality/runner.go
package quality

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hollis-data/banking-etl/pkg/config"
	"github.com/hollis-data/banking-etl/pkg/model"
)

// Store is the persistence surface the quality runner needs
type Store interface {
	FetchRecentSample(ctx context.Context, qualifiedTable string, columns []string, limit int) (*model.TableSample, error)
	CountOrphans(ctx context.Context, probe model.OrphanProbe) (int64, error)
	AppendMetrics(ctx context.Context, batchID string, metrics []model.QualityMetric) error
}

// Runner executes the check battery for one batch and persists the
// outcome as a quality run
type Runner struct {
	store  Store
	pipe   *config.PipelineConfig
	logger *zap.Logger
}

// NewRunner creates a new quality runner
func NewRunner(store Store, pipe *config.PipelineConfig, logger *zap.Logger) (*Runner, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if pipe == nil {
		return nil, errors.New("pipeline config cannot be nil")
	}
	if logger == nil {
		logger = zap.L().Named("quality-runner")
	}

	return &Runner{
		store:  store,
		pipe:   pipe,
		logger: logger,
	}, nil
}

// Run evaluates quality for a batch. With an explicit sample it checks
// that sample alone; with a nil sample it pulls the most recent rows of
// the fact and cleaned tables and checks both. Returns whether the
// folded status is PASS, plus every metric produced.
func (r *Runner) Run(ctx context.Context, batchID string, sample *model.TableSample) (bool, []model.QualityMetric, error) {
	run, err := r.evaluate(ctx, batchID, sample, false)
	if err != nil {
		return false, nil, err
	}
	return run.Overall == model.StatusPass, run.Metrics, nil
}

// RunDeep evaluates the scheduled checks plus schema validation and
// referential integrity probes
func (r *Runner) RunDeep(ctx context.Context, batchID string) (bool, []model.QualityMetric, error) {
	run, err := r.evaluate(ctx, batchID, nil, true)
	if err != nil {
		return false, nil, err
	}
	return run.Overall == model.StatusPass, run.Metrics, nil
}

func (r *Runner) evaluate(ctx context.Context, batchID string, sample *model.TableSample, deep bool) (*model.QualityRun, error) {
	startedAt := time.Now().UTC()
	agg := NewStatusAggregator()
	var metrics []model.QualityMetric

	if sample != nil {
		metrics = r.checkSample(agg, metrics, sample, cleanedDuplicateKey)
	} else {
		factSample, err := r.store.FetchRecentSample(ctx, r.pipe.FactTable(), factSampleColumns, r.pipe.SampleLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to sample %s: %w", r.pipe.FactTable(), err)
		}

		cleanedSample, err := r.store.FetchRecentSample(ctx, r.pipe.CleanedTable(), cleanedSampleColumns, r.pipe.SampleLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to sample %s: %w", r.pipe.CleanedTable(), err)
		}

		metrics = r.checkSample(agg, metrics, factSample, factDuplicateKey)
		metrics = r.checkSample(agg, metrics, cleanedSample, cleanedDuplicateKey)

		if deep {
			metrics = r.checkDeep(ctx, agg, metrics, factSample, cleanedSample)
		}
	}

	if err := r.store.AppendMetrics(ctx, batchID, metrics); err != nil {
		return nil, err
	}

	run := &model.QualityRun{
		BatchID:    batchID,
		Metrics:    metrics,
		Overall:    agg.Overall(),
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
	}

	r.logger.Info("Quality checks complete",
		zap.String("batch_id", run.BatchID),
		zap.String("overall_status", run.Overall.String()),
		zap.Int("metric_count", len(run.Metrics)),
		zap.Duration("elapsed", run.FinishedAt.Sub(run.StartedAt)))

	return run, nil
}

// checkSample runs the standard battery against one sample
func (r *Runner) checkSample(agg *StatusAggregator, metrics []model.QualityMetric, sample *model.TableSample, keyColumns []string) []model.QualityMetric {
	m, err := CheckCompleteness(sample, r.pipe.MinCompletenessPct)
	metrics = append(metrics, r.observe(agg, sample.Table, model.MetricCompleteness, m, err))

	m, err = CheckNullPercentages(sample, r.pipe.MaxNullPct)
	metrics = append(metrics, r.observe(agg, sample.Table, model.MetricNullPercentage, m, err))

	if r.pipe.DuplicateCheckEnabled {
		m, err = CheckDuplicates(sample, keyColumns)
		metrics = append(metrics, r.observe(agg, sample.Table, model.MetricDuplicates, m, err))
	}

	return metrics
}

// checkDeep adds schema validation and referential integrity probes
func (r *Runner) checkDeep(ctx context.Context, agg *StatusAggregator, metrics []model.QualityMetric, factSample, cleanedSample *model.TableSample) []model.QualityMetric {
	m, err := CheckSchema(factSample, expectedFactSchema)
	metrics = append(metrics, r.observe(agg, factSample.Table, model.MetricSchemaValidation, m, err))

	m, err = CheckSchema(cleanedSample, expectedCleanedSchema)
	metrics = append(metrics, r.observe(agg, cleanedSample.Table, model.MetricSchemaValidation, m, err))

	probes := DefaultFactProbes(r.pipe)
	results := make([]model.ProbeResult, 0, len(probes))
	for _, probe := range probes {
		orphans, probeErr := r.store.CountOrphans(ctx, probe)
		results = append(results, model.ProbeResult{Probe: probe, Orphans: orphans, Err: probeErr})
	}

	m, err = CheckReferentialIntegrity(r.pipe.FactTable(), results)
	metrics = append(metrics, r.observe(agg, r.pipe.FactTable(), model.MetricReferentialIntegrity, m, err))

	return metrics
}

// observe is the single error boundary of the battery: a check failure
// becomes an ERROR metric carrying the error text, and the outcome
// status feeds the fold either way
func (r *Runner) observe(agg *StatusAggregator, table, name string, m model.QualityMetric, err error) model.QualityMetric {
	if err != nil {
		r.logger.Error("Quality check failed",
			zap.String("table", table),
			zap.String("metric", name),
			zap.Error(err))

		m = model.QualityMetric{
			Table:  table,
			Name:   name,
			Status: model.StatusError,
			Detail: err.Error(),
		}
	}

	agg.Observe(m.Status)
	return m
}
