package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
)

const coreDoc = `# Core

> REQ-CORE-1
> The tool parses requirements.
> critical

> REQ-CORE-2
> Parsed requirements are validated.
> child-of: REQ-CORE-1
`

const uiDoc = `# UI

> REQ-UI-1
> Requirements are listed.
> completed
> child-of: REQ-CORE-2
`

func doc(source, content string) domain.SourceDocument {
	return domain.SourceDocument{Source: source, Content: content}
}

// failingSource is a DocumentSource whose listing always fails.
type failingSource struct {
	err error
}

var _ driven.DocumentSource = (*failingSource)(nil)

func (s *failingSource) Type() string                            { return "failing" }
func (s *failingSource) Root() string                            { return "nowhere" }
func (s *failingSource) Capabilities() driven.SourceCapabilities { return driven.SourceCapabilities{} }
func (s *failingSource) Validate(_ context.Context) error        { return s.err }
func (s *failingSource) Close() error                            { return nil }
func (s *failingSource) Watch(_ context.Context) (<-chan domain.DocumentChange, error) {
	return nil, domain.ErrNotImplemented
}

func (s *failingSource) Documents(_ context.Context) (<-chan domain.SourceDocument, <-chan error) {
	out := make(chan domain.SourceDocument)
	errs := make(chan error, 1)
	close(out)
	errs <- s.err
	close(errs)
	return out, errs
}

// failingHistory is a HistoryStore that rejects every write.
type failingHistory struct{}

func (failingHistory) Save(context.Context, domain.HistoryEntry) error {
	return errors.New("disk full")
}
func (failingHistory) Get(context.Context, string) (*domain.HistoryEntry, error) {
	return nil, domain.ErrNotFound
}
func (failingHistory) List(context.Context, int) ([]domain.HistoryEntry, error) { return nil, nil }
func (failingHistory) Clear(context.Context) error                              { return nil }

// stubRenderer renders pages as plain ID lists.
type stubRenderer struct {
	name string
	opts domain.SiteOptions
}

var _ driven.SiteRenderer = (*stubRenderer)(nil)

func (r *stubRenderer) Pages(reqs []domain.ParsedRequirement, opts domain.SiteOptions) ([]domain.Page, error) {
	r.opts = opts
	pages := []domain.Page{{Path: "index." + r.name, Content: []byte(fmt.Sprintf("%d", len(reqs)))}}
	for _, pr := range reqs {
		pages = append(pages, domain.Page{Path: pr.ID() + "." + r.name, Content: []byte(pr.ID())})
	}
	return pages, nil
}

func (r *stubRenderer) StatusReport(status *domain.Status) ([]byte, error) {
	return []byte(fmt.Sprintf("%d/%d", status.Completed, status.Total)), nil
}

func (r *stubRenderer) Graph(reqs []domain.ParsedRequirement) ([]byte, error) {
	return []byte(fmt.Sprintf("digraph %d", len(reqs))), nil
}
