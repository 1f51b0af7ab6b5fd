// Package file stores snapshots as a JSON document on the local filesystem.
package file

import (
	"compress/bzip2"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/jd-116/fooddb/db"
	"github.com/jd-116/fooddb/env"
	"github.com/jd-116/fooddb/types"
)

const (
	defaultPath        = "fooddb.json"
	defaultMaxSnapshot = 64 * datasize.MB
	compressedSuffix   = ".bz2"
)

// Provider implements a snapshot provider against a single file.
// Paths ending in .bz2 are read through a bzip2 decompressor
// and cannot be saved to.
type Provider struct {
	path     string
	maxBytes int64
	logger   zerolog.Logger
}

// NewProvider creates a new provider and loads values in from the environment
func NewProvider(logger zerolog.Logger) (*Provider, error) {
	path := env.GetEnvDefault("FOODDB_FILE_PATH", defaultPath)

	maxSize, err := env.GetBytesEnvDefault("max snapshot size", "FOODDB_MAX_SNAPSHOT_SIZE", defaultMaxSnapshot)
	if err != nil {
		return nil, err
	}

	return New(path, int64(maxSize.Bytes()), logger), nil
}

// New creates a provider for the given path and size limit
func New(path string, maxBytes int64, logger zerolog.Logger) *Provider {
	return &Provider{
		path:     path,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Connect makes sure the snapshot's directory exists
func (p *Provider) Connect(ctx context.Context) error {
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.Wrapf(err, "create snapshot directory '%s'", dir)
	}
	return nil
}

// Disconnect is a no-op for files
func (p *Provider) Disconnect(ctx context.Context) error {
	return nil
}

// Load reads and decodes the snapshot file
func (p *Provider) Load(ctx context.Context) (*types.Snapshot, error) {
	f, err := os.Open(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, db.NewNoSnapshotError(p.path)
		}
		return nil, errors.Wrap(err, "open snapshot")
	}
	defer f.Close()

	var reader io.Reader = f
	if p.compressed() {
		reader = bzip2.NewReader(f)
	}

	// Read one byte past the limit to detect oversized snapshots
	data, err := io.ReadAll(io.LimitReader(reader, p.maxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "read snapshot")
	}
	if int64(len(data)) > p.maxBytes {
		return nil, fmt.Errorf("snapshot '%s' is larger than the %s limit",
			p.path, datasize.ByteSize(p.maxBytes).HumanReadable())
	}

	var snapshot types.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}

	p.logger.Debug().Str("path", p.path).Int("bytes", len(data)).Msg("read snapshot file")
	return &snapshot, nil
}

// Save encodes the snapshot and replaces the file atomically
// by writing a temporary sibling and renaming it into place
func (p *Provider) Save(ctx context.Context, snapshot types.Snapshot) error {
	if p.compressed() {
		return fmt.Errorf("cannot save to compressed snapshot '%s'; bz2 snapshots are read-only", p.path)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}

	tempID, err := ksuid.NewRandom()
	if err != nil {
		return err
	}
	dir, base := filepath.Split(p.path)
	tempPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, tempID))

	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return errors.Wrap(err, "write temporary snapshot")
	}
	if err := os.Rename(tempPath, p.path); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(err, "replace snapshot")
	}

	p.logger.Debug().Str("path", p.path).Int("bytes", len(data)).Msg("wrote snapshot file")
	return nil
}

func (p *Provider) compressed() bool {
	return strings.HasSuffix(p.path, compressedSuffix)
}
