// pkg/store/store.go
package store

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/hollis-data/banking-etl/pkg/config"
)

// Store provides access to the staging, warehouse, and audit schemas.
// All methods join an open transaction when the context carries one.
type Store struct {
	db     *sqlx.DB
	pipe   *config.PipelineConfig
	logger *zap.Logger
}

// New creates a new store instance
func New(db *sqlx.DB, pipe *config.PipelineConfig, logger *zap.Logger) (*Store, error) {
	if db == nil {
		return nil, errors.New("database connection cannot be nil")
	}
	if pipe == nil {
		return nil, errors.New("pipeline config cannot be nil")
	}
	if logger == nil {
		logger = zap.L().Named("store")
	}

	return &Store{
		db:     db,
		pipe:   pipe,
		logger: logger,
	}, nil
}

// DB returns the underlying database handle
func (s *Store) DB() *sqlx.DB {
	return s.db
}
