package mcp

import (
	"context"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driving"
)

// mockRequirementService is a mock implementation of driving.RequirementService.
type mockRequirementService struct {
	reqs       []domain.ParsedRequirement
	check      *domain.CheckResult
	err        error
	lastFilter domain.RequirementFilter
}

var _ driving.RequirementService = (*mockRequirementService)(nil)

func (m *mockRequirementService) Scan(_ context.Context) (*domain.ScanResult, error) {
	return &domain.ScanResult{Requirements: m.reqs}, m.err
}

func (m *mockRequirementService) Validate(_ context.Context) ([]domain.ParsedRequirement, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.reqs, nil
}

func (m *mockRequirementService) Init(_ context.Context, _ bool) (*domain.InitResult, error) {
	return nil, m.err
}

func (m *mockRequirementService) Check(_ context.Context) (*domain.CheckResult, error) {
	return m.check, m.err
}

func (m *mockRequirementService) Lock(_ context.Context) (*domain.LockResult, error) {
	return nil, m.err
}

func (m *mockRequirementService) Get(_ context.Context, id string) (*domain.RequirementDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	d := &domain.RequirementDetail{}
	found := false
	for _, pr := range m.reqs {
		switch {
		case pr.ID() == id:
			d.Requirement = pr
			found = true
		case pr.Requirement.HasParent(id):
			d.Children = append(d.Children, pr)
		}
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (m *mockRequirementService) List(
	_ context.Context, filter domain.RequirementFilter,
) ([]domain.ParsedRequirement, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.ParsedRequirement
	for _, pr := range m.reqs {
		if filter.Matches(pr) {
			out = append(out, pr)
		}
	}
	return out, nil
}

// mockStatusService is a mock implementation of driving.StatusService.
type mockStatusService struct {
	report []byte
	err    error
}

func (m *mockStatusService) Status(_ context.Context) (*domain.Status, error) {
	return &domain.Status{}, m.err
}

func (m *mockStatusService) Report(_ context.Context) ([]byte, error) {
	return m.report, m.err
}

func sampleRequirements() []domain.ParsedRequirement {
	return []domain.ParsedRequirement{
		{
			Requirement: domain.NewRequirement("REQ-CORE-1", "Parse documents", domain.WithCritical(true)),
			Source:      "README.md",
		},
		{
			Requirement: domain.NewRequirement("REQ-UI-1", "Browse",
				domain.WithCompleted(true), domain.WithParents("REQ-CORE-1")),
			Source: "docs/ui.md",
		},
	}
}
