package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jd-116/fooddb/cli"
	"github.com/jd-116/fooddb/db"
	"github.com/jd-116/fooddb/db/file"
	"github.com/jd-116/fooddb/db/mongo"
	"github.com/jd-116/fooddb/db/postgres"
	"github.com/jd-116/fooddb/db/s3"
	"github.com/jd-116/fooddb/db/sqlite"
	"github.com/jd-116/fooddb/env"
	"github.com/jd-116/fooddb/importer"
	"github.com/jd-116/fooddb/metrics"
	"github.com/jd-116/fooddb/search"
	"github.com/jd-116/fooddb/store"
	"github.com/jd-116/fooddb/types"
)

// Application is a struct that bundles together the various
// process-wide resources used at runtime that each have
// a lifecycle of initialization, connection, and disconnection
type Application struct {
	logger      zerolog.Logger
	backend     string
	dbProvider  db.Provider
	recorder    *metrics.Recorder
	metricsPath string
	Store       *store.Store
}

// NewApplication initializes the struct and all constituent components
func NewApplication(logger zerolog.Logger) (*Application, error) {
	backend := env.GetEnvDefault("FOODDB_STORAGE", db.BackendFile)
	dbProvider, err := newProvider(backend, logger)
	if err != nil {
		return nil, err
	}

	maxResults, err := env.GetIntEnvDefault("search result limit", "FOODDB_SEARCH_MAX_RESULTS", search.DefaultMaxResults)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder()
	s := store.New(logger,
		store.WithObserver(recorder),
		store.WithMaxResults(maxResults),
	)

	return &Application{
		logger:      logger,
		backend:     backend,
		dbProvider:  dbProvider,
		recorder:    recorder,
		metricsPath: env.GetEnvDefault("FOODDB_METRICS_TEXTFILE", ""),
		Store:       s,
	}, nil
}

func newProvider(backend string, logger zerolog.Logger) (db.Provider, error) {
	logger = logger.With().Str("backend", backend).Logger()
	switch backend {
	case db.BackendFile:
		return file.NewProvider(logger)
	case db.BackendMongo:
		return mongo.NewProvider(logger)
	case db.BackendSQLite:
		return sqlite.NewProvider(logger)
	case db.BackendPostgres:
		return postgres.NewProvider(logger)
	case db.BackendS3:
		return s3.NewProvider(logger)
	default:
		return nil, db.NewUnknownBackendError(backend)
	}
}

// Connect connects to the storage backend and restores the last snapshot.
// A backend with nothing saved yet starts an empty store.
func (a *Application) Connect(ctx context.Context) error {
	a.logger.Info().Str("backend", a.backend).Msg("initializing storage provider")
	err := a.dbProvider.Connect(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("could not connect to the storage backend")
		return err
	}
	a.logger.Info().Msg("successfully connected to the storage backend")

	snapshot, err := a.dbProvider.Load(ctx)
	if err != nil {
		if db.IsNoSnapshot(err) {
			a.logger.Info().Msg("no snapshot saved yet; starting with an empty store")
			return nil
		}
		return errors.Wrap(err, "could not load snapshot")
	}

	err = a.Store.Restore(*snapshot)
	if err != nil {
		return errors.Wrap(err, "could not restore snapshot")
	}
	return nil
}

// Import adds the foods from a MyFoodData spreadsheet and a YAML food list
// to the store; either path may be empty
func (a *Application) Import(csvPath string, yamlPath string) error {
	if csvPath != "" {
		if err := a.importFile(csvPath, importer.ReadMyFoodDataCSV); err != nil {
			return err
		}
	}
	if yamlPath != "" {
		if err := a.importFile(yamlPath, importer.ReadYAML); err != nil {
			return err
		}
	}
	return nil
}

func (a *Application) importFile(path string, read func(io.Reader) ([]types.Food, error)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "could not open food list")
	}
	defer f.Close()

	foods, err := read(f)
	if err != nil {
		return errors.Wrapf(err, "could not read food list %s", path)
	}

	ids := importer.Into(a.Store, foods)
	a.logger.Info().
		Str("path", path).
		Int("food_count", len(ids)).
		Msg("imported foods")
	return nil
}

// Run shows the menu until the user quits, the input ends or ctx is cancelled
func (a *Application) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	session := cli.NewSession(a.Store, a.dbProvider, out, a.logger)
	return session.Run(ctx, in)
}

// Disconnect saves the store, writes the metrics textfile if one is
// configured and disconnects from the storage backend
func (a *Application) Disconnect(ctx context.Context) error {
	snapshot := a.Store.Snapshot()
	err := a.dbProvider.Save(ctx, snapshot)
	if err != nil {
		a.logger.Error().Err(err).Msg("could not save snapshot")
		return errors.Wrap(err, "could not save snapshot")
	}
	a.logger.Info().
		Int("food_count", len(snapshot.Foods)).
		Int("meal_count", len(snapshot.Meals)).
		Msg("saved snapshot")

	if a.metricsPath != "" {
		a.recorder.SetCounts(len(snapshot.Foods), len(snapshot.Meals))
		err = a.recorder.WriteTextfile(a.metricsPath)
		if err != nil {
			// Metrics are best-effort
			a.logger.Warn().Err(err).Str("path", a.metricsPath).Msg("could not write metrics textfile")
		}
	}

	err = a.dbProvider.Disconnect(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("could not disconnect from the storage backend")
		return err
	}
	a.logger.Info().Msg("disconnected from the storage backend")

	return nil
}
