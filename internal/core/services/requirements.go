package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/reqsnake/internal/core/diff"
	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/graph"
	"github.com/custodia-labs/reqsnake/internal/core/parser"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driving"
	"github.com/custodia-labs/reqsnake/internal/core/snapshot"
	"github.com/custodia-labs/reqsnake/internal/logger"
)

// Ensure RequirementService implements the interface.
var _ driving.RequirementService = (*RequirementService)(nil)

// RequirementService reads requirements from a document source and keeps
// the lockfile in step with them.
type RequirementService struct {
	source    driven.DocumentSource
	snapshots driven.SnapshotStore
	history   driving.HistoryService
	settings  *domain.Settings
}

// NewRequirementService creates a requirement service. history may be nil,
// in which case runs are not recorded. nil settings mean defaults.
func NewRequirementService(
	source driven.DocumentSource,
	snapshots driven.SnapshotStore,
	history driving.HistoryService,
	settings *domain.Settings,
) *RequirementService {
	if settings == nil {
		settings = domain.DefaultSettings()
	}
	return &RequirementService{
		source:    source,
		snapshots: snapshots,
		history:   history,
		settings:  settings,
	}
}

// Scan reads every document and parses it without validating the result.
func (s *RequirementService) Scan(ctx context.Context) (*domain.ScanResult, error) {
	logger.Section("Scan")
	defer logger.Timer("scan")()

	docs, err := s.documents(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("read %d documents from %s", len(docs), s.source.Root())

	reqs, err := parser.ParseDocuments(docs, parser.OptionsFromSettings(s.settings.Parser))
	if err != nil {
		return nil, err
	}
	logger.Debug("parsed %d requirements", len(reqs))

	result := &domain.ScanResult{Requirements: reqs}
	for _, d := range docs {
		result.Documents = append(result.Documents, d.Source)
	}
	return result, nil
}

// Validate scans the documents and runs every validator over the result.
func (s *RequirementService) Validate(ctx context.Context) ([]domain.ParsedRequirement, error) {
	g, err := s.validated(ctx)
	if err != nil {
		return nil, err
	}
	return g.Requirements(), nil
}

// Init writes the first lockfile. An existing lockfile is only replaced
// when force is set.
func (s *RequirementService) Init(ctx context.Context, force bool) (*domain.InitResult, error) {
	exists, err := s.snapshots.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking lockfile: %w", err)
	}
	if exists && !force {
		return nil, fmt.Errorf("lockfile %s: %w", s.snapshots.Path(), domain.ErrAlreadyExists)
	}

	scan, err := s.Scan(ctx)
	if err != nil {
		s.recordFailure(ctx, domain.HistoryInit, err)
		return nil, err
	}
	g, err := s.check(scan.Requirements)
	if err != nil {
		s.recordFailure(ctx, domain.HistoryInit, err)
		return nil, err
	}

	reqs := domain.Requirements(g.Requirements())
	if err := s.snapshots.Save(ctx, reqs); err != nil {
		return nil, fmt.Errorf("writing lockfile: %w", err)
	}
	digest := snapshot.Digest(reqs)
	logger.Info("wrote %d requirements to %s", len(reqs), s.snapshots.Path())

	s.record(ctx, domain.HistoryEntry{
		Action:       domain.HistoryInit,
		Digest:       digest,
		Requirements: len(reqs),
		Added:        len(reqs),
		Success:      true,
	})

	return &domain.InitResult{
		Lockfile:     s.snapshots.Path(),
		Documents:    scan.Documents,
		Requirements: g.Requirements(),
		Digest:       digest,
	}, nil
}

// Check compares the lockfile with a fresh parse of the documents. The
// diff is computed even when the documents fail validation; the failure
// is reported on the result. Parse errors are returned as errors.
func (s *RequirementService) Check(ctx context.Context) (*domain.CheckResult, error) {
	lock, err := s.loadLockfile(ctx)
	if err != nil {
		return nil, err
	}

	scan, err := s.Scan(ctx)
	if err != nil {
		s.recordFailure(ctx, domain.HistoryCheck, err)
		return nil, err
	}

	result := &domain.CheckResult{Lockfile: s.snapshots.Path()}
	if _, err := s.check(scan.Requirements); err != nil {
		result.ValidationError = err
	}

	current := domain.Requirements(scan.Requirements)
	result.Diff = diff.Compare(lock.Requirements, current)

	entry := domain.HistoryEntry{
		Action:       domain.HistoryCheck,
		Digest:       snapshot.Digest(current),
		Requirements: len(current),
		Added:        len(result.Diff.Added),
		Removed:      len(result.Diff.Removed),
		Changed:      len(result.Diff.Changed),
		Success:      result.UpToDate(),
	}
	switch {
	case result.ValidationError != nil:
		entry.Error = result.ValidationError.Error()
	case !result.Diff.IsEmpty():
		entry.Error = domain.ErrOutOfDate.Error()
	}
	s.record(ctx, entry)

	return result, nil
}

// Lock validates the documents and rewrites the lockfile when it is
// missing, stale, or stored in an older format.
func (s *RequirementService) Lock(ctx context.Context) (*domain.LockResult, error) {
	g, err := s.validated(ctx)
	if err != nil {
		s.recordFailure(ctx, domain.HistoryLock, err)
		return nil, err
	}
	reqs := domain.Requirements(g.Requirements())
	digest := snapshot.Digest(reqs)

	result := &domain.LockResult{
		Lockfile:     s.snapshots.Path(),
		Digest:       digest,
		Requirements: len(reqs),
	}

	var previous []domain.Requirement
	lock, err := s.snapshots.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		result.Created = true
	case err != nil:
		return nil, fmt.Errorf("reading lockfile: %w", err)
	default:
		previous = lock.Requirements
	}
	result.Diff = diff.Compare(previous, reqs)

	if result.Created || lock.Digest != digest || lock.Version != snapshot.VersionCurrent {
		if err := s.snapshots.Save(ctx, reqs); err != nil {
			return nil, fmt.Errorf("writing lockfile: %w", err)
		}
		result.Written = true
		logger.Info("updated %s (%d changes)", s.snapshots.Path(), result.Diff.Count())
	} else {
		logger.Debug("%s already up to date", s.snapshots.Path())
	}

	s.record(ctx, domain.HistoryEntry{
		Action:       domain.HistoryLock,
		Digest:       digest,
		Requirements: len(reqs),
		Added:        len(result.Diff.Added),
		Removed:      len(result.Diff.Removed),
		Changed:      len(result.Diff.Changed),
		Success:      true,
	})
	return result, nil
}

// Get returns one requirement and its neighbourhood in the validated graph.
func (s *RequirementService) Get(ctx context.Context, id string) (*domain.RequirementDetail, error) {
	g, err := s.validated(ctx)
	if err != nil {
		return nil, err
	}
	pr, ok := g.Get(id)
	if !ok {
		return nil, fmt.Errorf("requirement %s: %w", id, domain.ErrNotFound)
	}

	detail := &domain.RequirementDetail{
		Requirement: pr,
		Ancestors:   g.Ancestors(id),
	}
	for _, parent := range pr.Requirement.Parents() {
		if p, ok := g.Get(parent); ok {
			detail.Parents = append(detail.Parents, p)
		} else {
			detail.MissingParents = append(detail.MissingParents, parent)
		}
	}
	for _, child := range g.Children(id) {
		if c, ok := g.Get(child); ok {
			detail.Children = append(detail.Children, c)
		}
	}
	return detail, nil
}

// List returns the validated requirements matching filter, in document order.
func (s *RequirementService) List(
	ctx context.Context,
	filter domain.RequirementFilter,
) ([]domain.ParsedRequirement, error) {
	reqs, err := s.Validate(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.ParsedRequirement
	for _, pr := range reqs {
		if filter.Matches(pr) {
			out = append(out, pr)
		}
	}
	return out, nil
}

func (s *RequirementService) validated(ctx context.Context) (*graph.Graph, error) {
	scan, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return s.check(scan.Requirements)
}

func (s *RequirementService) check(reqs []domain.ParsedRequirement) (*graph.Graph, error) {
	logger.Section("Validate")
	defer logger.Timer("validate")()
	return graph.Validate(reqs, graph.OptionsFromSettings(s.settings.Validation))
}

func (s *RequirementService) loadLockfile(ctx context.Context) (*domain.Lockfile, error) {
	lock, err := s.snapshots.Load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("no lockfile at %s, run init first: %w", s.snapshots.Path(), err)
	}
	if err != nil {
		return nil, fmt.Errorf("reading lockfile: %w", err)
	}
	return lock, nil
}

// documents drains the source into a slice.
func (s *RequirementService) documents(ctx context.Context) ([]domain.SourceDocument, error) {
	docs, errs := s.source.Documents(ctx)
	var out []domain.SourceDocument
	for d := range docs {
		out = append(out, d)
	}
	if err := <-errs; err != nil {
		return nil, fmt.Errorf("reading documents from %s: %w", s.source.Root(), err)
	}
	return out, nil
}

func (s *RequirementService) record(ctx context.Context, entry domain.HistoryEntry) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, entry); err != nil {
		logger.Warn("recording %s history: %v", entry.Action, err)
	}
}

func (s *RequirementService) recordFailure(ctx context.Context, action domain.HistoryAction, err error) {
	s.record(ctx, domain.HistoryEntry{Action: action, Error: err.Error()})
}
