// pkg/config/pipeline.go
package config

import "errors"

// PipelineConfig holds batch behavior, schema names and quality thresholds
type PipelineConfig struct {
	PipelineName string

	// Schema names
	StagingSchema   string
	WarehouseSchema string
	AuditSchema     string

	// Batch sizing
	StagingFetchLimit int // max unprocessed rows pulled per transform run
	SampleLimit       int // max rows sampled per table for quality checks
	BatchSize         int // rows per insert statement

	// Quality thresholds
	MinCompletenessPct    float64
	MaxNullPct            float64
	DuplicateCheckEnabled bool
}

// LoadPipelineConfig loads pipeline settings from environment variables,
// falling back to the warehouse defaults.
func LoadPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		PipelineName: getEnv("PIPELINE_NAME", "banking_etl_pipeline"),

		StagingSchema:   getEnv("STAGING_SCHEMA_NAME", "staging"),
		WarehouseSchema: getEnv("DW_SCHEMA_NAME", "banking_dw"),
		AuditSchema:     getEnv("AUDIT_SCHEMA_NAME", "audit"),

		StagingFetchLimit: getEnvAsInt("STAGING_FETCH_LIMIT", 200000),
		SampleLimit:       getEnvAsInt("QUALITY_SAMPLE_LIMIT", 50000),
		BatchSize:         getEnvAsInt("BATCH_SIZE", 5000),

		MinCompletenessPct:    getEnvAsFloat("MIN_COMPLETENESS_PCT", 95),
		MaxNullPct:            getEnvAsFloat("MAX_NULL_PCT", 5),
		DuplicateCheckEnabled: getEnvAsBool("DUPLICATE_CHECK_ENABLED", true),
	}
}

// Validate ensures pipeline settings are usable
func (c *PipelineConfig) Validate() error {
	if c.StagingFetchLimit <= 0 {
		return errors.New("staging fetch limit must be positive")
	}

	if c.SampleLimit <= 0 {
		return errors.New("quality sample limit must be positive")
	}

	if c.BatchSize <= 0 {
		return errors.New("batch size must be positive")
	}

	if c.MinCompletenessPct < 0 || c.MinCompletenessPct > 100 {
		return errors.New("minimum completeness percentage must be between 0 and 100")
	}

	if c.MaxNullPct < 0 || c.MaxNullPct > 100 {
		return errors.New("maximum null percentage must be between 0 and 100")
	}

	if c.StagingSchema == "" || c.WarehouseSchema == "" || c.AuditSchema == "" {
		return errors.New("schema names cannot be empty")
	}

	return nil
}

// StagingTable returns the qualified raw staging table name
func (c *PipelineConfig) StagingTable() string {
	return c.StagingSchema + ".raw_banking_data"
}

// CleanedTable returns the qualified cleaned staging table name
func (c *PipelineConfig) CleanedTable() string {
	return c.StagingSchema + ".cleaned_banking_data"
}

// FactTable returns the qualified fact table name
func (c *PipelineConfig) FactTable() string {
	return c.WarehouseSchema + ".fact_transactions"
}
