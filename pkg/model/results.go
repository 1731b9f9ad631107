// pkg/model/results.go
package model

// TransformResult reports one transform run. Transformed plus Rejected
// always equals the number of staged rows consumed.
type TransformResult struct {
	Transformed int
	Rejected    int
}

// Consumed returns the number of staged rows the run pulled from staging
func (r TransformResult) Consumed() int {
	return r.Transformed + r.Rejected
}

// LoadResult reports one fact load run
type LoadResult struct {
	RowsLoaded      int64
	RowsMarked      int64
	DimensionCounts map[string]int64
}
