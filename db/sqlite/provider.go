// Package sqlite stores snapshots in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/jd-116/fooddb/db/sqlstate"
	"github.com/jd-116/fooddb/env"
	"github.com/jd-116/fooddb/types"
)

const (
	defaultPath = "fooddb.sqlite"
	tableName   = "state"
)

// Provider implements a snapshot provider against a SQLite file
type Provider struct {
	path   string
	logger zerolog.Logger
	db     *sql.DB
	table  *sqlstate.Table
}

// NewProvider creates a new provider and loads values in from the environment
func NewProvider(logger zerolog.Logger) (*Provider, error) {
	return New(env.GetEnvDefault("FOODDB_SQLITE_PATH", defaultPath), logger), nil
}

// New creates a provider for the given database path
func New(path string, logger zerolog.Logger) *Provider {
	return &Provider{
		path:   path,
		logger: logger,
	}
}

// Connect opens the database and creates the state table
func (p *Provider) Connect(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o750); err != nil {
		return errors.Wrap(err, "create sqlite directory")
	}

	database, err := sql.Open("sqlite", p.path)
	if err != nil {
		return errors.Wrap(err, "open sqlite")
	}

	table := &sqlstate.Table{DB: database, Name: tableName, Dialect: sqlstate.SQLite}
	if err := table.Ensure(ctx); err != nil {
		_ = database.Close()
		return err
	}

	p.db = database
	p.table = table
	p.logger.Debug().Str("path", p.path).Msg("opened sqlite snapshot database")
	return nil
}

// Disconnect closes the database
func (p *Provider) Disconnect(ctx context.Context) error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

// Load reads the snapshot from the state table
func (p *Provider) Load(ctx context.Context) (*types.Snapshot, error) {
	return p.table.Load(ctx)
}

// Save writes the snapshot to the state table
func (p *Provider) Save(ctx context.Context, snapshot types.Snapshot) error {
	return p.table.Save(ctx, snapshot)
}
