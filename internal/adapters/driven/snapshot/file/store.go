// Package file persists the lockfile on the local filesystem.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
	"github.com/custodia-labs/reqsnake/internal/core/snapshot"
	"github.com/custodia-labs/reqsnake/internal/fsutil"
)

// Ensure Store implements the interface.
var _ driven.SnapshotStore = (*Store)(nil)

// Store reads and writes a lockfile at a fixed path.
type Store struct {
	path    string
	format  domain.SnapshotFormat
	version string
}

// NewStore creates a store for the lockfile at path. New lockfiles are
// written in the current snapshot version.
func NewStore(path string, format domain.SnapshotFormat) (*Store, error) {
	return NewStoreVersion(path, format, snapshot.VersionCurrent)
}

// NewStoreVersion creates a store that writes the given snapshot version.
func NewStoreVersion(path string, format domain.SnapshotFormat, version string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: lockfile path is required", domain.ErrInvalidInput)
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: lockfile format %q", domain.ErrUnsupportedType, format)
	}
	return &Store{path: path, format: format, version: version}, nil
}

// Load reads and decodes the lockfile.
func (s *Store) Load(_ context.Context) (*domain.Lockfile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("lockfile %s: %w", s.path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading lockfile: %w", err)
	}
	lock, err := snapshot.Decode(s.format, data)
	if err != nil {
		return nil, fmt.Errorf("lockfile %s: %w", s.path, err)
	}
	return lock, nil
}

// Save encodes reqs and replaces the lockfile atomically.
func (s *Store) Save(_ context.Context, reqs []domain.Requirement) error {
	data, err := snapshot.Encode(s.version, s.format, reqs)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(s.path, data, 0o644)
}

// Exists reports whether the lockfile is present.
func (s *Store) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(s.path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Path returns the lockfile path.
func (s *Store) Path() string {
	return s.path
}
