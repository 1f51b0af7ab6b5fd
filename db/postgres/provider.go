// Package postgres stores snapshots in a Postgres table.
package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jd-116/fooddb/db/sqlstate"
	"github.com/jd-116/fooddb/env"
	"github.com/jd-116/fooddb/types"
)

const (
	driverName = "pgx"
	tableName  = "fooddb_state"
)

// Provider implements a snapshot provider against a Postgres database
type Provider struct {
	dsn    string
	logger zerolog.Logger
	db     *sql.DB
	table  *sqlstate.Table
}

// NewProvider creates a new provider and loads values in from the environment
func NewProvider(logger zerolog.Logger) (*Provider, error) {
	dsn, err := env.GetEnv("Postgres DSN", "FOODDB_POSTGRES_DSN")
	if err != nil {
		return nil, err
	}

	return &Provider{
		dsn:    dsn,
		logger: logger,
	}, nil
}

// Connect opens and pings the database and creates the state table
func (p *Provider) Connect(ctx context.Context) error {
	database, err := sql.Open(driverName, p.dsn)
	if err != nil {
		return errors.Wrap(err, "open postgres")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		_ = database.Close()
		return errors.Wrap(err, "ping postgres")
	}

	table := &sqlstate.Table{DB: database, Name: tableName, Dialect: sqlstate.Postgres}
	if err := table.Ensure(ctx); err != nil {
		_ = database.Close()
		return err
	}

	p.db = database
	p.table = table
	p.logger.Debug().Str("table", tableName).Msg("connected to postgres snapshot database")
	return nil
}

// Disconnect closes the connection pool
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
