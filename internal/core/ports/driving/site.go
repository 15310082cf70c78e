package driving

import (
	"context"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// SiteService renders browsable documentation for the requirements.
type SiteService interface {
	// Generate renders every page and writes the site.
	Generate(ctx context.Context, opts domain.SiteOptions) (*domain.SiteResult, error)

	// Graph renders the requirement hierarchy in Graphviz dot format.
	Graph(ctx context.Context) ([]byte, error)
}
