// cmd/banking-etl/render.go
package main

import (
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/hollis-data/banking-etl/pkg/model"
	"github.com/hollis-data/banking-etl/pkg/pipeline"
)

// renderSteps prints the per-step timing of one pipeline run
func renderSteps(w io.Writer, steps []pipeline.StepResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Step", "Status", "Duration"})

	for _, step := range steps {
		status := "OK"
		if !step.Succeeded() {
			status = "FAILED"
		}
		t.AppendRow(table.Row{step.Name, status, step.Duration.Round(time.Millisecond)})
	}

	t.Render()
}

// renderMetrics prints quality metrics as a table
func renderMetrics(w io.Writer, metrics []model.QualityMetric) {
	if len(metrics) == 0 {
		fmt.Fprintln(w, "(no metrics)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Table", "Metric", "Value", "Threshold", "Records", "Status", "Detail"})

	for _, m := range metrics {
		t.AppendRow(table.Row{
			m.Table,
			m.Name,
			formatNullFloat(m.Value),
			formatNullFloat(m.Threshold),
			m.RecordCount,
			m.Status.String(),
			truncate(m.Detail, 60),
		})
	}

	t.Render()
}

// renderMetricRecords prints persisted metric history
func renderMetricRecords(w io.Writer, records []model.MetricRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "(no metrics)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Batch", "Table", "Metric", "Value", "Records", "Status", "Created"})

	for _, r := range records {
		t.AppendRow(table.Row{
			r.BatchID,
			r.TableName,
			r.MetricName,
			formatNullFloat(r.Value),
			r.RecordCount,
			r.Status,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	t.Render()
}

func formatNullFloat(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return fmt.Sprintf("%.2f", v.Float64)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
