// pkg/quality/status.go
package quality

import "github.com/hollis-data/banking-etl/pkg/model"

// StatusAggregator folds metric statuses into one overall outcome. The
// fold is seeded at PASS and a new status can only raise it, so the
// worst observed result wins regardless of check order.
type StatusAggregator struct {
	overall model.Status
}

// NewStatusAggregator seeds the fold at PASS
func NewStatusAggregator() *StatusAggregator {
	return &StatusAggregator{overall: model.StatusPass}
}

// Observe feeds one metric status into the fold. Skipped checks carry
// no severity and leave the fold untouched.
func (a *StatusAggregator) Observe(s model.Status) {
	if s == model.StatusSkipped {
		return
	}
	if s > a.overall {
		a.overall = s
	}
}

// Overall returns the folded status
func (a *StatusAggregator) Overall() model.Status {
	return a.overall
}
