package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driving"
	"github.com/custodia-labs/reqsnake/internal/logger"
)

// Ensure SiteService implements the interface.
var _ driving.SiteService = (*SiteService)(nil)

// SiteService renders the validated requirements as a browsable site.
type SiteService struct {
	requirements driving.RequirementService
	markdown     driven.SiteRenderer
	html         driven.SiteRenderer
	writer       driven.SiteWriter
}

// NewSiteService creates a site service. html may be nil when HTML output
// is not supported.
func NewSiteService(
	requirements driving.RequirementService,
	markdown driven.SiteRenderer,
	html driven.SiteRenderer,
	writer driven.SiteWriter,
) *SiteService {
	return &SiteService{
		requirements: requirements,
		markdown:     markdown,
		html:         html,
		writer:       writer,
	}
}

// Generate validates the documents and writes one page per requirement
// plus an index to opts.Output.
func (s *SiteService) Generate(ctx context.Context, opts domain.SiteOptions) (*domain.SiteResult, error) {
	if opts.Output == "" {
		return nil, fmt.Errorf("%w: site output directory is required", domain.ErrInvalidInput)
	}
	renderer := s.markdown
	if opts.HTML {
		if s.html == nil {
			return nil, fmt.Errorf("html site: %w", domain.ErrNotImplemented)
		}
		renderer = s.html
	}
	if renderer == nil || s.writer == nil {
		return nil, errors.New("site renderer not configured")
	}

	reqs, err := s.requirements.Validate(ctx)
	if err != nil {
		return nil, err
	}
	pages, err := renderer.Pages(reqs, opts)
	if err != nil {
		return nil, fmt.Errorf("rendering site: %w", err)
	}
	if err := s.writer.Write(ctx, opts.Output, pages); err != nil {
		return nil, fmt.Errorf("writing site: %w", err)
	}
	logger.Info("wrote %d pages to %s", len(pages), opts.Output)

	result := &domain.SiteResult{Output: opts.Output}
	for _, p := range pages {
		result.Pages = append(result.Pages, p.Path)
	}
	return result, nil
}

// Graph renders the validated hierarchy in Graphviz dot format.
func (s *SiteService) Graph(ctx context.Context) ([]byte, error) {
	if s.markdown == nil {
		return nil, errors.New("site renderer not configured")
	}
	reqs, err := s.requirements.Validate(ctx)
	if err != nil {
		return nil, err
	}
	return s.markdown.Graph(reqs)
}
