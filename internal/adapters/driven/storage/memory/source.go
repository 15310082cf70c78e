package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
)

// Ensure DocumentSource implements the interface.
var _ driven.DocumentSource = (*DocumentSource)(nil)

// DocumentSource serves a fixed, mutable set of documents.
type DocumentSource struct {
	mu       sync.RWMutex
	docs     []domain.SourceDocument
	watchers []chan domain.DocumentChange
}

// NewDocumentSource creates a source holding docs in order.
func NewDocumentSource(docs ...domain.SourceDocument) *DocumentSource {
	return &DocumentSource{docs: slices.Clone(docs)}
}

// Type returns "memory".
func (s *DocumentSource) Type() string { return "memory" }

// Root returns a placeholder location.
func (s *DocumentSource) Root() string { return ":memory:" }

// Capabilities reports watch support.
func (s *DocumentSource) Capabilities() driven.SourceCapabilities {
	return driven.SourceCapabilities{SupportsWatch: true}
}

// Validate always succeeds.
func (s *DocumentSource) Validate(_ context.Context) error { return nil }

// Put adds or replaces a document and notifies watchers.
func (s *DocumentSource) Put(doc domain.SourceDocument) {
	s.mu.Lock()
	change := domain.DocumentChange{Type: domain.ChangeCreated, Source: doc.Source}
	if i := s.index(doc.Source); i >= 0 {
		s.docs[i] = doc
		change.Type = domain.ChangeUpdated
	} else {
		s.docs = append(s.docs, doc)
	}
	s.notify(change)
	s.mu.Unlock()
}

// Remove deletes a document and notifies watchers.
func (s *DocumentSource) Remove(source string) {
	s.mu.Lock()
	i := s.index(source)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.docs = slices.Delete(s.docs, i, i+1)
	s.notify(domain.DocumentChange{Type: domain.ChangeDeleted, Source: source})
	s.mu.Unlock()
}

func (s *DocumentSource) index(source string) int {
	return slices.IndexFunc(s.docs, func(d domain.SourceDocument) bool { return d.Source == source })
}

// Documents streams the current documents.
func (s *DocumentSource) Documents(ctx context.Context) (<-chan domain.SourceDocument, <-chan error) {
	s.mu.RLock()
	docs := slices.Clone(s.docs)
	s.mu.RUnlock()

	out := make(chan domain.SourceDocument)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		for _, d := range docs {
			select {
			case out <- d:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
	}()
	return out, errs
}

// Watch delivers changes made through Put and Remove until ctx ends.
func (s *DocumentSource) Watch(ctx context.Context) (<-chan domain.DocumentChange, error) {
	ch := make(chan domain.DocumentChange, 16)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		s.watchers = slices.DeleteFunc(s.watchers, func(w chan domain.DocumentChange) bool { return w == ch })
		s.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

// Close releases nothing.
func (s *DocumentSource) Close() error { return nil }

// notify sends without blocking; the caller holds s.mu.
func (s *DocumentSource) notify(change domain.DocumentChange) {
	for _, w := range s.watchers {
		select {
		case w <- change:
		default:
		}
	}
}
