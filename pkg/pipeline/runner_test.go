// pkg/pipeline/runner_test.go
package pipeline

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hollis-data/banking-etl/pkg/config"
	"github.com/hollis-data/banking-etl/pkg/connector"
	"github.com/hollis-data/banking-etl/pkg/model"
)

func testPipelineConfig() *config.PipelineConfig {
	return &config.PipelineConfig{
		PipelineName:          "banking_etl_pipeline",
		StagingSchema:         "staging",
		WarehouseSchema:       "banking_dw",
		AuditSchema:           "audit",
		StagingFetchLimit:     1000,
		SampleLimit:           100,
		BatchSize:             500,
		MinCompletenessPct:    95,
		MaxNullPct:            5,
		DuplicateCheckEnabled: true,
	}
}

type fakeValidator struct {
	err   error
	calls int
}

func (f *fakeValidator) HealthCheck(_ context.Context, _ *config.PipelineConfig) ([]connector.RequiredTable, error) {
	f.calls++
	return nil, f.err
}

type fakeTransformer struct {
	result model.TransformResult
	err    error
	calls  int
}

func (f *fakeTransformer) Run(_ context.Context) (model.TransformResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeLoader struct {
	result  model.LoadResult
	err     error
	calls   int
	batchID string
}

func (f *fakeLoader) Run(_ context.Context, batchID string) (model.LoadResult, error) {
	f.calls++
	f.batchID = batchID
	return f.result, f.err
}

type fakeQuality struct {
	passed  bool
	metrics []model.QualityMetric
	err     error
	calls   int
}

func (f *fakeQuality) Run(_ context.Context, _ string, sample *model.TableSample) (bool, []model.QualityMetric, error) {
	f.calls++
	if sample != nil {
		return false, nil, errors.New("pipeline quality runs in scheduled mode")
	}
	return f.passed, f.metrics, f.err
}

type fakePipelineStore struct {
	counts    map[string]int64
	countErr  error
	appendErr error
	logErr    error

	metrics []model.QualityMetric
	entries []model.ExecutionLogEntry
}

func (f *fakePipelineStore) CountRows(_ context.Context, qualifiedTable string) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.counts[qualifiedTable], nil
}

func (f *fakePipelineStore) AppendMetrics(_ context.Context, _ string, metrics []model.QualityMetric) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.metrics = append(f.metrics, metrics...)
	return nil
}

func (f *fakePipelineStore) AppendExecutionLog(_ context.Context, entry model.ExecutionLogEntry) error {
	if f.logErr != nil {
		return f.logErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

type fixture struct {
	validator   *fakeValidator
	transformer *fakeTransformer
	loader      *fakeLoader
	quality     *fakeQuality
	store       *fakePipelineStore
	runner      *Runner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		validator:   &fakeValidator{},
		transformer: &fakeTransformer{result: model.TransformResult{Transformed: 3, Rejected: 2}},
		loader:      &fakeLoader{result: model.LoadResult{RowsLoaded: 3, RowsMarked: 3}},
		quality:     &fakeQuality{passed: true},
		store: &fakePipelineStore{
			counts: map[string]int64{
				"staging.raw_banking_data":     5,
				"staging.cleaned_banking_data": 3,
				"banking_dw.fact_transactions": 3,
			},
		},
	}

	runner, err := NewRunner(f.validator, f.transformer, f.loader, f.quality, f.store, testPipelineConfig(), zap.NewNop())
	require.NoError(t, err)
	f.runner = runner

	return f
}

func taskNames(entries []model.ExecutionLogEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.TaskName
	}
	return names
}

func TestNewBatchIDFormat(t *testing.T) {
	id := NewBatchID()
	assert.Regexp(t, regexp.MustCompile(`^\d{8}_\d{6}_\d{3}$`), id)
}

func TestRunExecutesStepsInOrder(t *testing.T) {
	f := newFixture(t)

	report, err := f.runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, f.validator.calls)
	assert.Equal(t, 1, f.transformer.calls)
	assert.Equal(t, 1, f.loader.calls)
	assert.Equal(t, 1, f.quality.calls)
	assert.Equal(t, report.BatchID, f.loader.batchID)

	require.Len(t, report.Steps, 5)
	stepNames := make([]string, len(report.Steps))
	for i, s := range report.Steps {
		stepNames[i] = s.Name
		assert.True(t, s.Succeeded())
		assert.NotEmpty(t, s.ID)
	}
	assert.Equal(t, []string{StepValidate, StepTransform, StepLoad, StepSmoke, StepQuality}, stepNames)

	// Five task rows plus the summary
	assert.Equal(t, []string{
		StepValidate, StepTransform, StepLoad, StepSmoke, StepQuality, SummaryTask,
	}, taskNames(f.store.entries))

	assert.Equal(t, model.ExecutionSuccess, report.Status)
}

func TestRunSummaryRowCarriesBatchCounts(t *testing.T) {
	f := newFixture(t)

	report, err := f.runner.Run(context.Background())
	require.NoError(t, err)

	summary := f.store.entries[len(f.store.entries)-1]
	assert.Equal(t, SummaryTask, summary.TaskName)
	assert.Equal(t, report.BatchID, summary.BatchID)
	assert.Equal(t, model.ExecutionSuccess, summary.ExecutionStatus)
	assert.Equal(t, int64(5), summary.RowsExtracted, "extracted = transformed + rejected")
	assert.Equal(t, int64(3), summary.RowsTransformed)
	assert.Equal(t, int64(3), summary.RowsLoaded)
	assert.Equal(t, int64(2), summary.RowsRejected)
}

func TestRunPersistsSmokeCountMetrics(t *testing.T) {
	f := newFixture(t)

	_, err := f.runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, f.store.metrics, 3)
	byName := make(map[string]model.QualityMetric, 3)
	for _, m := range f.store.metrics {
		byName[m.Name] = m
	}

	raw := byName[model.MetricSmokeCountRaw]
	assert.Equal(t, "staging.raw_banking_data", raw.Table)
	assert.Equal(t, int64(5), raw.RecordCount)
	assert.Equal(t, model.StatusPass, raw.Status)
	assert.Equal(t, "Smoke count for staging.raw_banking_data", raw.Detail)

	assert.Equal(t, int64(3), byName[model.MetricSmokeCountCleaned].RecordCount)
	assert.Equal(t, int64(3), byName[model.MetricSmokeCountFact].RecordCount)
}

func TestRunQualityFailureDowngradesToWarning(t *testing.T) {
	f := newFixture(t)
	f.quality.passed = false

	report, err := f.runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.ExecutionWarning, report.Status)
	summary := f.store.entries[len(f.store.entries)-1]
	assert.Equal(t, model.ExecutionWarning, summary.ExecutionStatus)
}

func TestRunStepFailureStopsThePipeline(t *testing.T) {
	f := newFixture(t)
	f.transformer.err = errors.New("staging unavailable")

	report, err := f.runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline step transform failed")

	assert.Equal(t, 1, f.validator.calls)
	assert.Zero(t, f.loader.calls, "load never runs after a failed transform")
	assert.Zero(t, f.quality.calls)

	// The failed step still lands in the log
	require.Len(t, f.store.entries, 2)
	failed := f.store.entries[1]
	assert.Equal(t, StepTransform, failed.TaskName)
	assert.Equal(t, model.ExecutionFailed, failed.ExecutionStatus)

	require.Len(t, report.Steps, 2)
	assert.False(t, report.Steps[1].Succeeded())
}

func TestRunValidateFailureRunsNothingElse(t *testing.T) {
	f := newFixture(t)
	f.validator.err = errors.New("missing required table")

	_, err := f.runner.Run(context.Background())
	require.Error(t, err)
	assert.Zero(t, f.transformer.calls)
	assert.Zero(t, f.loader.calls)
}

func TestRunLogFailureOfAFailedStepStillPropagatesTheStepError(t *testing.T) {
	f := newFixture(t)
	f.transformer.err = errors.New("staging unavailable")
	f.store.logErr = errors.New("audit schema gone")

	_, err := f.runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staging unavailable")
}

func TestRunSmokeCountFailureFailsTheStep(t *testing.T) {
	f := newFixture(t)
	f.store.countErr = errors.New("permission denied")

	_, err := f.runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline step smoke failed")
	assert.Zero(t, f.quality.calls)
}
