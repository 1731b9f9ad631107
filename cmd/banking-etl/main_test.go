// cmd/banking-etl/main_test.go
package main

import (
	"bytes"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollis-data/banking-etl/pkg/model"
	"github.com/hollis-data/banking-etl/pkg/pipeline"
)

func TestHelpListsEverySubcommand(t *testing.T) {
	cmd := newRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, sub := range []string{"run", "transform", "load", "quality", "health", "metrics"} {
		assert.Contains(t, output, sub)
	}
}

func TestUnknownCommandReturnsError(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"does-not-exist"})

	assert.Error(t, cmd.Execute())
}

func TestRenderStepsMarksFailures(t *testing.T) {
	buf := new(bytes.Buffer)
	renderSteps(buf, []pipeline.StepResult{
		{Name: "transform", Duration: 120 * time.Millisecond},
		{Name: "load", Duration: 40 * time.Millisecond, Err: errors.New("boom")},
	})

	output := buf.String()
	assert.Contains(t, output, "transform")
	assert.Contains(t, output, "OK")
	assert.Contains(t, output, "FAILED")
}

func TestRenderMetricsFormatsValuesAndThresholds(t *testing.T) {
	buf := new(bytes.Buffer)
	renderMetrics(buf, []model.QualityMetric{
		{
			Table:       "staging.cleaned_banking_data",
			Name:        model.MetricCompleteness,
			Value:       model.FloatValue(97.5),
			Threshold:   model.FloatValue(95),
			Status:      model.StatusPass,
			RecordCount: 100,
		},
		{
			Table:  "staging.cleaned_banking_data",
			Name:   model.MetricDuplicates,
			Status: model.StatusSkipped,
			Detail: "key column missing",
		},
	})

	output := buf.String()
	assert.Contains(t, output, "97.50")
	assert.Contains(t, output, "95.00")
	assert.Contains(t, output, "PASS")
	assert.Contains(t, output, "SKIPPED")
	assert.Contains(t, output, "key column missing")
}

func TestRenderMetricsEmpty(t *testing.T) {
	buf := new(bytes.Buffer)
	renderMetrics(buf, nil)
	assert.Contains(t, buf.String(), "(no metrics)")
}

func TestFormatNullFloat(t *testing.T) {
	assert.Equal(t, "12.34", formatNullFloat(sql.NullFloat64{Float64: 12.34, Valid: true}))
	assert.Equal(t, "", formatNullFloat(sql.NullFloat64{}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := "a detail string that goes on for quite a while"
	assert.Len(t, truncate(long, 20), 20)
}
