package db

import (
	"errors"
	"fmt"
)

// NoSnapshotError is an error used to encode when a backend
// has no saved snapshot to load
// (used to start with an empty store instead of failing)
type NoSnapshotError struct {
	Location string
}

// NewNoSnapshotError constructs a new NoSnapshotError
func NewNoSnapshotError(location string) *NoSnapshotError {
	return &NoSnapshotError{
		Location: location,
	}
}

func (e *NoSnapshotError) Error() string {
	return fmt.Sprintf("no snapshot has been saved at '%s'", e.Location)
}

// IsNoSnapshot reports whether err is, or wraps, a NoSnapshotError
func IsNoSnapshot(err error) bool {
	var noSnapshot *NoSnapshotError
	return errors.As(err, &noSnapshot)
}

// UnknownBackendError is an error used to encode when the configured
// storage backend name isn't recognized
type UnknownBackendError struct {
	Name string
}

// NewUnknownBackendError constructs a new UnknownBackendError
func NewUnknownBackendError(name string) *UnknownBackendError {
	return &UnknownBackendError{
		Name: name,
	}
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown storage backend '%s' (expected one of file, mongo, sqlite, postgres, s3)",
		e.Name)
}
