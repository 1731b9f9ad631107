// pkg/load/loader_test.go
package load

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hollis-data/banking-etl/pkg/config"
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

// fakeLoadStore satisfies the Store interface without a database
type fakeLoadStore struct {
	counts    map[string]int64
	countErr  error
	insertErr error
	markErr   error

	countedTables []string
	insertedBatch string
	factRows      int64
	markedRows    int64
	txCount       int
	rolledBackTxs int
}

func (f *fakeLoadStore) CountRows(_ context.Context, qualifiedTable string) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	f.countedTables = append(f.countedTables, qualifiedTable)
	return f.counts[qualifiedTable], nil
}

func (f *fakeLoadStore) InsertFacts(_ context.Context, batchID string) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.insertedBatch = batchID
	return f.factRows, nil
}

func (f *fakeLoadStore) MarkCleanedLoaded(_ context.Context) (int64, error) {
	if f.markErr != nil {
		return 0, f.markErr
	}
	return f.markedRows, nil
}

func (f *fakeLoadStore) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txCount++
	if err := fn(ctx); err != nil {
		f.rolledBackTxs++
		return err
	}
	return nil
}

func populatedCounts() map[string]int64 {
	return map[string]int64{
		"banking_dw.dim_customers": 10,
		"banking_dw.dim_products":  3,
		"banking_dw.dim_branches":  4,
		"banking_dw.dim_time":      30,
	}
}

func TestNewLoaderRequiresDependencies(t *testing.T) {
	_, err := NewLoader(nil, testPipelineConfig(), zap.NewNop())
	assert.Error(t, err)

	_, err = NewLoader(&fakeLoadStore{}, nil, zap.NewNop())
	assert.Error(t, err)

	l, err := NewLoader(&fakeLoadStore{}, testPipelineConfig(), nil)
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestRunLoadsFactsAndMarksCleaned(t *testing.T) {
	store := &fakeLoadStore{
		counts:     populatedCounts(),
		factRows:   42,
		markedRows: 42,
	}
	l, err := NewLoader(store, testPipelineConfig(), zap.NewNop())
	require.NoError(t, err)

	result, err := l.Run(context.Background(), "20240304_120000_000")
	require.NoError(t, err)

	assert.Equal(t, int64(42), result.RowsLoaded)
	assert.Equal(t, int64(42), result.RowsMarked)
	assert.Equal(t, "20240304_120000_000", store.insertedBatch)
	assert.Equal(t, 1, store.txCount, "insert and mark share one transaction")

	assert.Equal(t, []string{
		"banking_dw.dim_customers",
		"banking_dw.dim_products",
		"banking_dw.dim_branches",
		"banking_dw.dim_time",
	}, store.countedTables)
	assert.Equal(t, int64(10), result.DimensionCounts["dim_customers"])
}

func TestRunEmptyDimensionIsAWarningNotAnError(t *testing.T) {
	counts := populatedCounts()
	counts["banking_dw.dim_branches"] = 0

	store := &fakeLoadStore{counts: counts, factRows: 5, markedRows: 5}
	l, err := NewLoader(store, testPipelineConfig(), zap.NewNop())
	require.NoError(t, err)

	result, err := l.Run(context.Background(), "batch")
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.DimensionCounts["dim_branches"])
	assert.Equal(t, int64(5), result.RowsLoaded)
}

func TestRunCountFailurePropagates(t *testing.T) {
	store := &fakeLoadStore{countErr: errors.New("relation does not exist")}
	l, err := NewLoader(store, testPipelineConfig(), zap.NewNop())
	require.NoError(t, err)

	_, err = l.Run(context.Background(), "batch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relation does not exist")
	assert.Zero(t, store.txCount, "no fact transaction after a failed verification")
}

func TestRunInsertFailureRollsBackAndReportsNothingLoaded(t *testing.T) {
	store := &fakeLoadStore{
		counts:    populatedCounts(),
		insertErr: errors.New("deadlock detected"),
	}
	l, err := NewLoader(store, testPipelineConfig(), zap.NewNop())
	require.NoError(t, err)

	result, err := l.Run(context.Background(), "batch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load failed")

	assert.Equal(t, 1, store.rolledBackTxs)
	assert.Equal(t, model.LoadResult{DimensionCounts: result.DimensionCounts}, result)
	assert.Zero(t, result.RowsLoaded)
	assert.Zero(t, result.RowsMarked)
}

func TestRunMarkFailureRollsBackTheWholeLoad(t *testing.T) {
	store := &fakeLoadStore{
		counts:   populatedCounts(),
		factRows: 7,
		markErr:  errors.New("lock timeout"),
	}
	l, err := NewLoader(store, testPipelineConfig(), zap.NewNop())
	require.NoError(t, err)

	result, err := l.Run(context.Background(), "batch")
	require.Error(t, err)
	assert.Equal(t, 1, store.rolledBackTxs)
	assert.Zero(t, result.RowsLoaded, "a rolled back load reports no loaded rows")
}
