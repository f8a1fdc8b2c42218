// Package store persists run snapshots: JSON files as the canonical
// output, and optionally Postgres for queryable history.
package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	// ErrSnapshotExists means a save would have overwritten an
	// existing snapshot. Saves must fail loudly instead. It wraps
	// ErrConflict so callers can match either.
	ErrSnapshotExists = fmt.Errorf("%w: snapshot already exists", ErrConflict)
)
