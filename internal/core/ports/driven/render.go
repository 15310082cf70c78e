package driven

import (
	"context"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// SiteRenderer turns a validated requirement collection into pages.
type SiteRenderer interface {
	// Pages renders one page per requirement plus the index.
	Pages(reqs []domain.ParsedRequirement, opts domain.SiteOptions) ([]domain.Page, error)

	// StatusReport renders a completion report.
	StatusReport(status *domain.Status) ([]byte, error)

	// Graph renders the child-of hierarchy in Graphviz dot format.
	Graph(reqs []domain.ParsedRequirement) ([]byte, error)
}

// SiteWriter stores rendered pages.
type SiteWriter interface {
	// Write replaces the site at dir with pages.
	Write(ctx context.Context, dir string, pages []domain.Page) error
}
