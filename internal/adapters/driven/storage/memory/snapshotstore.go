package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
	"github.com/custodia-labs/reqsnake/internal/core/snapshot"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps the lockfile in memory.
type SnapshotStore struct {
	mu    sync.RWMutex
	reqs  []domain.Requirement
	saved bool
	saves int
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// NewSnapshotStoreWith creates a store already holding reqs.
func NewSnapshotStoreWith(reqs []domain.Requirement) *SnapshotStore {
	return &SnapshotStore{reqs: reqs, saved: true}
}

// Load returns the stored requirements.
func (s *SnapshotStore) Load(_ context.Context) (*domain.Lockfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return nil, domain.ErrNotFound
	}
	reqs := append([]domain.Requirement(nil), s.reqs...)
	return &domain.Lockfile{
		Version:      snapshot.VersionCurrent,
		Digest:       snapshot.Digest(reqs),
		Requirements: reqs,
	}, nil
}

// Save replaces the stored requirements.
func (s *SnapshotStore) Save(_ context.Context, reqs []domain.Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs = append([]domain.Requirement(nil), reqs...)
	s.saved = true
	s.saves++
	return nil
}

// Exists reports whether Save has been called.
func (s *SnapshotStore) Exists(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved, nil
}

// Path returns a placeholder location.
func (s *SnapshotStore) Path() string {
	return ":memory:"
}

// Saves returns how many times Save was called.
func (s *SnapshotStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
