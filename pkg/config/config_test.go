package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("POSTGRES_USER", "etl")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "banking_warehouse")

	// Clear optional vars so ambient environment cannot leak into defaults
	for _, key := range []string{
		"POSTGRES_HOST", "POSTGRES_PORT", "STAGING_FETCH_LIMIT",
		"QUALITY_SAMPLE_LIMIT", "BATCH_SIZE", "MIN_COMPLETENESS_PCT",
		"MAX_NULL_PCT", "DUPLICATE_CHECK_ENABLED", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "banking_warehouse", cfg.Postgres.Database)

	assert.Equal(t, "banking_etl_pipeline", cfg.Pipeline.PipelineName)
	assert.Equal(t, "staging", cfg.Pipeline.StagingSchema)
	assert.Equal(t, "banking_dw", cfg.Pipeline.WarehouseSchema)
	assert.Equal(t, "audit", cfg.Pipeline.AuditSchema)
	assert.Equal(t, 200000, cfg.Pipeline.StagingFetchLimit)
	assert.Equal(t, 50000, cfg.Pipeline.SampleLimit)
	assert.Equal(t, 5000, cfg.Pipeline.BatchSize)
	assert.Equal(t, 95.0, cfg.Pipeline.MinCompletenessPct)
	assert.Equal(t, 5.0, cfg.Pipeline.MaxNullPct)
	assert.True(t, cfg.Pipeline.DuplicateCheckEnabled)

	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POSTGRES_HOST", "warehouse.internal")
	t.Setenv("POSTGRES_PORT", "6432")
	t.Setenv("STAGING_FETCH_LIMIT", "1000")
	t.Setenv("MIN_COMPLETENESS_PCT", "99.5")
	t.Setenv("DUPLICATE_CHECK_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "warehouse.internal", cfg.Postgres.Host)
	assert.Equal(t, 6432, cfg.Postgres.Port)
	assert.Equal(t, 1000, cfg.Pipeline.StagingFetchLimit)
	assert.Equal(t, 99.5, cfg.Pipeline.MinCompletenessPct)
	assert.False(t, cfg.Pipeline.DuplicateCheckEnabled)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	t.Setenv("POSTGRES_USER", "")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "banking_warehouse")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_USER")
}

func TestPipelineConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PipelineConfig)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*PipelineConfig) {},
		},
		{
			name:    "zero fetch limit",
			mutate:  func(c *PipelineConfig) { c.StagingFetchLimit = 0 },
			wantErr: "staging fetch limit",
		},
		{
			name:    "negative sample limit",
			mutate:  func(c *PipelineConfig) { c.SampleLimit = -1 },
			wantErr: "sample limit",
		},
		{
			name:    "completeness out of range",
			mutate:  func(c *PipelineConfig) { c.MinCompletenessPct = 150 },
			wantErr: "completeness",
		},
		{
			name:    "empty schema",
			mutate:  func(c *PipelineConfig) { c.AuditSchema = "" },
			wantErr: "schema names",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadPipelineConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConnectionString(t *testing.T) {
	cfg := &PostgresConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "etl",
		Password: "secret",
		Database: "banking_warehouse",
		SSLMode:  "require",
	}

	dsn := cfg.ConnectionString()
	assert.Equal(t, "host=db.internal port=5432 user=etl password=secret dbname=banking_warehouse sslmode=require", dsn)
}

func TestQualifiedTableNames(t *testing.T) {
	cfg := LoadPipelineConfig()

	assert.Equal(t, "staging.raw_banking_data", cfg.StagingTable())
	assert.Equal(t, "staging.cleaned_banking_data", cfg.CleanedTable())
	assert.Equal(t, "banking_dw.fact_transactions", cfg.FactTable())
}
