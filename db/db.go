package db

import (
	"context"

	"github.com/jd-116/fooddb/types"
)

// Provider represents a snapshot storage backend
type Provider interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error

	SnapshotProvider
}

// SnapshotProvider loads and saves the flat store snapshot.
// Load returns a *NoSnapshotError when nothing has been saved yet.
type SnapshotProvider interface {
	Load(ctx context.Context) (*types.Snapshot, error)
	Save(ctx context.Context, snapshot types.Snapshot) error
}

// Backend names accepted in FOODDB_STORAGE
const (
	BackendFile     = "file"
	BackendMongo    = "mongo"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)
