// pkg/quality/probes.go
package quality

import (
	"github.com/hollis-data/banking-etl/pkg/config"
	"github.com/hollis-data/banking-etl/pkg/model"
)

// Sampled columns per table. The fact sample mirrors what the load step
// writes; the cleaned sample carries the deduplication key plus the
// amount.
var (
	factSampleColumns = []string{
		"transaction_id", "customer_key", "product_key",
		"time_key", "transaction_amount", "transaction_date",
	}
	cleanedSampleColumns = []string{
		"customer_id", "transaction_id", "transaction_date", "transaction_amount",
	}
)

// Duplicate keys per sampled table
var (
	factDuplicateKey    = []string{"transaction_id"}
	cleanedDuplicateKey = []string{"customer_id", "transaction_id", "transaction_date"}
)

// Expected schemas for the deep check, as column to type-substring
// mappings. INT matches both INT4 and INT8 key columns.
var (
	expectedFactSchema = map[string]string{
		"transaction_id":     "VARCHAR",
		"customer_key":       "INT",
		"product_key":        "INT",
		"time_key":           "INT",
		"transaction_amount": "NUMERIC",
		"transaction_date":   "DATE",
	}
	expectedCleanedSchema = map[string]string{
		"customer_id":        "VARCHAR",
		"transaction_id":     "VARCHAR",
		"transaction_date":   "TIMESTAMP",
		"transaction_amount": "NUMERIC",
	}
)

// DefaultFactProbes cover the dimension keys resolved during fact load.
// The branch key is left unprobed: an unmatched branch loads as NULL,
// not as a dangling key.
func DefaultFactProbes(pipe *config.PipelineConfig) []model.OrphanProbe {
	fact := pipe.FactTable()
	dw := pipe.WarehouseSchema

	return []model.OrphanProbe{
		{
			Name:      "fact_customers",
			FactTable: fact,
			DimTable:  dw + ".dim_customers",
			FactKey:   "customer_key",
			DimKey:    "customer_key",
		},
		{
			Name:      "fact_products",
			FactTable: fact,
			DimTable:  dw + ".dim_products",
			FactKey:   "product_key",
			DimKey:    "product_key",
		},
		{
			Name:      "fact_time",
			FactTable: fact,
			DimTable:  dw + ".dim_time",
			FactKey:   "time_key",
			DimKey:    "time_key",
		},
	}
}
