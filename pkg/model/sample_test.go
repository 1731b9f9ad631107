package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableSampleColumnIndex(t *testing.T) {
	sample := &TableSample{
		Table:   "staging.raw_banking_data",
		Columns: []string{"customer_id", "transaction_id", "transaction_amount"},
	}

	assert.Equal(t, 0, sample.ColumnIndex("customer_id"))
	assert.Equal(t, 1, sample.ColumnIndex("TRANSACTION_ID"))
	assert.Equal(t, -1, sample.ColumnIndex("branch_id"))
}

func TestTableSampleNulls(t *testing.T) {
	sample := &TableSample{
		Columns: []string{"a", "b"},
		Rows: [][]interface{}{
			{"x", nil},
			{nil, nil},
			{"y", "z"},
		},
	}

	assert.Equal(t, 3, sample.RowCount())
	assert.False(t, sample.IsNull(0, 0))
	assert.True(t, sample.IsNull(0, 1))
	assert.True(t, sample.IsNull(5, 0), "out of range counts as null")
	assert.Equal(t, 1, sample.NullCount(0))
	assert.Equal(t, 2, sample.NullCount(1))
}
