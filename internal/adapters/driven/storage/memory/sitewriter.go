package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
)

// Ensure SiteWriter implements the interface.
var _ driven.SiteWriter = (*SiteWriter)(nil)

// SiteWriter records written pages by directory.
type SiteWriter struct {
	mu    sync.RWMutex
	sites map[string][]domain.Page
}

// NewSiteWriter creates an empty writer.
func NewSiteWriter() *SiteWriter {
	return &SiteWriter{sites: make(map[string][]domain.Page)}
}

// Write replaces the pages recorded for dir.
func (w *SiteWriter) Write(_ context.Context, dir string, pages []domain.Page) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sites[dir] = slices.Clone(pages)
	return nil
}

// Pages returns the pages last written to dir.
func (w *SiteWriter) Pages(dir string) []domain.Page {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.sites[dir])
}
