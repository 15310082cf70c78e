package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/graph"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driving"
	"github.com/custodia-labs/reqsnake/internal/logger"
)

// Ensure StatusService implements the interface.
var _ driving.StatusService = (*StatusService)(nil)

// StatusService reports completion over the locked requirements.
type StatusService struct {
	requirements driving.RequirementService
	snapshots    driven.SnapshotStore
	renderer     driven.SiteRenderer
}

// NewStatusService creates a status service. renderer is only needed by Report.
func NewStatusService(
	requirements driving.RequirementService,
	snapshots driven.SnapshotStore,
	renderer driven.SiteRenderer,
) *StatusService {
	return &StatusService{
		requirements: requirements,
		snapshots:    snapshots,
		renderer:     renderer,
	}
}

// Status summarises the lockfile. Completion consistency is checked again
// on the locked set. Each requirement takes its source from a fresh scan
// of the documents; requirements no longer found are attributed to
// domain.UnknownSource.
func (s *StatusService) Status(ctx context.Context) (*domain.Status, error) {
	lock, err := s.snapshots.Load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("no lockfile at %s, run init first: %w", s.snapshots.Path(), err)
	}
	if err != nil {
		return nil, fmt.Errorf("reading lockfile: %w", err)
	}

	g, err := graph.FromRequirements(lock.Requirements, domain.UnknownSource)
	if err != nil {
		return nil, fmt.Errorf("lockfile %s: %w", s.snapshots.Path(), err)
	}
	if err := graph.CheckCompletion(g); err != nil {
		return nil, fmt.Errorf("lockfile %s: %w", s.snapshots.Path(), err)
	}

	sources := s.provenance(ctx)
	reqs := make([]domain.ParsedRequirement, len(lock.Requirements))
	for i, r := range lock.Requirements {
		src, ok := sources[r.ID()]
		if !ok {
			src = domain.UnknownSource
		}
		reqs[i] = domain.ParsedRequirement{Requirement: r, Source: src}
	}

	return &domain.Status{
		StatusSummary: domain.Summarize(reqs),
		Requirements:  reqs,
		Groups:        domain.GroupBySource(reqs),
	}, nil
}

// Report renders Status as a document.
func (s *StatusService) Report(ctx context.Context) ([]byte, error) {
	if s.renderer == nil {
		return nil, errors.New("status renderer not configured")
	}
	status, err := s.Status(ctx)
	if err != nil {
		return nil, err
	}
	return s.renderer.StatusReport(status)
}

// provenance maps IDs to the first document defining them. A failed scan
// leaves every requirement unattributed.
func (s *StatusService) provenance(ctx context.Context) map[string]string {
	sources := make(map[string]string)
	scan, err := s.requirements.Scan(ctx)
	if err != nil {
		logger.Warn("scanning documents for status: %v", err)
		return sources
	}
	for _, pr := range scan.Requirements {
		if _, ok := sources[pr.ID()]; !ok {
			sources[pr.ID()] = pr.Source
		}
	}
	return sources
}
