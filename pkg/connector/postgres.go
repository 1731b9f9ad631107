// pkg/connector/postgres.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/hollis-data/banking-etl/pkg/config"
)

// Connector owns the PostgreSQL connection for the warehouse database
type Connector struct {
	db     *sqlx.DB
	logger *zap.Logger
	cfg    *config.PostgresConfig
}

// NewConnector creates and initializes the PostgreSQL connector
func NewConnector(ctx context.Context, cfg *config.PostgresConfig) (*Connector, error) {
	logger := zap.L().Named("postgres-connector")

	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("user", cfg.User))

	db, err := sqlx.Open("pgx", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	ApplyConnectionSettings(
		db.DB,
		cfg.MaxOpenConns,
		cfg.MaxIdleConns,
		cfg.ConnMaxLifetime,
		cfg.ConnMaxIdleTime,
	)

	// Set statement timeout if configured
	if cfg.StatementTimeout > 0 {
		_, err = db.ExecContext(
			ctx,
			fmt.Sprintf("SET statement_timeout = %d", cfg.StatementTimeout.Milliseconds()),
		)
		if err != nil {
			logger.Warn("Failed to set statement timeout", zap.Error(err))
		}
	}

	if err := PingWithTimeout(ctx, db.DB, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	connector := &Connector{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}

	LogConnectionStats(logger, cfg.Database, db.DB)
	return connector, nil
}

// DB returns the underlying database handle
func (c *Connector) DB() *sqlx.DB {
	return c.db
}

// Validate verifies the connection, that we landed on the expected
// database, and write permissions.
func (c *Connector) Validate(ctx context.Context) error {
	var version string
	if err := c.db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		return fmt.Errorf("failed to query PostgreSQL version: %w", err)
	}
	c.logger.Info("Connected to PostgreSQL", zap.String("version", version))

	// The ETL must hit the warehouse database, never a neighboring one
	// reachable through the same credentials.
	var currentDB string
	if err := c.db.QueryRowContext(ctx, "SELECT current_database()").Scan(&currentDB); err != nil {
		return fmt.Errorf("failed to query current database: %w", err)
	}
	if currentDB != c.cfg.Database {
		return fmt.Errorf("connected to %q, expected %q: check POSTGRES_* configuration", currentDB, c.cfg.Database)
	}

	// Check write permissions with a temp table
	_, err := c.db.ExecContext(ctx, `
		DO $$
		BEGIN
			CREATE TEMP TABLE _permission_check (id serial, test text);
			INSERT INTO _permission_check (test) VALUES ('test');
			DROP TABLE _permission_check;
		EXCEPTION WHEN OTHERS THEN
			RAISE EXCEPTION 'Permission check failed: %', SQLERRM;
		END $$;
	`)
	if err != nil {
		return fmt.Errorf("permission validation failed: %w", err)
	}

	c.logger.Info("PostgreSQL connection validated",
		zap.String("database", c.cfg.Database),
		zap.String("host", c.cfg.Host),
		zap.Int("port", c.cfg.Port))

	return nil
}

// RequiredTable identifies one table the pipeline cannot run without
type RequiredTable struct {
	Schema string
	Table  string
	Exists bool
}

// RequiredTables lists the warehouse objects the pipeline depends on
func RequiredTables(pipe *config.PipelineConfig) []RequiredTable {
	return []RequiredTable{
		{Schema: pipe.StagingSchema, Table: "raw_banking_data"},
		{Schema: pipe.StagingSchema, Table: "cleaned_banking_data"},
		{Schema: pipe.WarehouseSchema, Table: "fact_transactions"},
		{Schema: pipe.AuditSchema, Table: "data_quality_metrics"},
		{Schema: pipe.AuditSchema, Table: "etl_execution_log"},
	}
}

// HealthCheck verifies every required schema object exists. It returns the
// per-table result for reporting and an error when any object is missing.
func (c *Connector) HealthCheck(ctx context.Context, pipe *config.PipelineConfig) ([]RequiredTable, error) {
	required := RequiredTables(pipe)

	const existsQuery = `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = $1
			  AND table_name = $2
		)`

	missing := 0
	for i := range required {
		obj := &required[i]
		if err := c.db.QueryRowContext(ctx, existsQuery, obj.Schema, obj.Table).Scan(&obj.Exists); err != nil {
			return required, fmt.Errorf("failed to check %s.%s: %w", obj.Schema, obj.Table, err)
		}
		if !obj.Exists {
			missing++
			c.logger.Error("Missing required table",
				zap.String("schema", obj.Schema),
				zap.String("table", obj.Table))
		}
	}

	if missing > 0 {
		return required, fmt.Errorf("schema health check failed: %d required tables missing", missing)
	}

	c.logger.Info("Schema health check passed", zap.Int("tables", len(required)))
	return required, nil
}

// Close closes the database connection
func (c *Connector) Close() error {
	c.logger.Info("Closing PostgreSQL connection")
	LogConnectionStats(c.logger, c.cfg.Database, c.db.DB)
	return c.db.Close()
}

// ExecWithTimeout executes a statement with a timeout
func (c *Connector) ExecWithTimeout(
	ctx context.Context,
	query string,
	timeout time.Duration,
	args ...interface{},
) (sql.Result, error) {
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.ExecContext(queryCtx, query, args...)
}

// QueryWithTimeout executes a query with a timeout
func (c *Connector) QueryWithTimeout(
	ctx context.Context,
	query string,
	timeout time.Duration,
	args ...interface{},
) (*sql.Rows, error) {
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.QueryContext(queryCtx, query, args...)
}
