package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService records init, lock and check runs.
type HistoryService struct {
	store driven.HistoryStore
	now   func() time.Time
}

// NewHistoryService creates a history service backed by store.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store, now: time.Now}
}

// Record stores entry, assigning an ID and timestamp when they are unset.
func (s *HistoryService) Record(ctx context.Context, entry domain.HistoryEntry) error {
	if entry.Action == "" {
		return fmt.Errorf("%w: history entry has no action", domain.ErrInvalidInput)
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = s.now().UTC()
	}
	if err := s.store.Save(ctx, entry); err != nil {
		return fmt.Errorf("save history entry: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	return s.store.List(ctx, limit)
}

// Get returns one entry by ID.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.HistoryEntry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("history entry %q: %w", id, domain.ErrInvalidInput)
	}
	entry, err := s.store.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("history entry %s: %w", id, err)
	}
	return entry, err
}

// Clear removes every entry.
func (s *HistoryService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
