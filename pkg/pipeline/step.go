// pkg/pipeline/step.go
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hollis-data/banking-etl/pkg/model"
)

// Step names in execution order
const (
	StepValidate  = "validate"
	StepTransform = "transform"
	StepLoad      = "load"
	StepSmoke     = "smoke"
	StepQuality   = "quality"

	// SummaryTask is the per-batch summary row in the execution log
	SummaryTask = "full_pipeline"
)

// NewBatchID returns a batch identifier carrying the UTC start time down
// to the millisecond, e.g. 20240304_120000_042
func NewBatchID() string {
	now := time.Now().UTC()
	return fmt.Sprintf("%s_%03d", now.Format("20060102_150405"), now.Nanosecond()/1e6)
}

// StepResult records the execution of one pipeline step
type StepResult struct {
	ID         string
	Name       string
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Err        error
}

// newStepResult starts the clock on a step
func newStepResult(name string) StepResult {
	return StepResult{
		ID:        uuid.New().String(),
		Name:      name,
		StartedAt: time.Now().UTC(),
	}
}

// complete stops the clock and records the outcome
func (s *StepResult) complete(err error) {
	s.FinishedAt = time.Now().UTC()
	s.Duration = s.FinishedAt.Sub(s.StartedAt)
	s.Err = err
}

// Succeeded reports whether the step ran without error
func (s *StepResult) Succeeded() bool {
	return s.Err == nil
}

// Report summarizes one full pipeline run
type Report struct {
	BatchID       string
	Steps         []StepResult
	Transform     model.TransformResult
	Load          model.LoadResult
	QualityPassed bool
	Metrics       []model.QualityMetric
	Status        string
}
