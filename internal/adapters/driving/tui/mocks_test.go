package tui

import (
	"context"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driving"
)

// MockRequirementService serves a fixed requirement collection.
type MockRequirementService struct {
	Reqs []domain.ParsedRequirement
	Err  error
}

var _ driving.RequirementService = (*MockRequirementService)(nil)

func (m *MockRequirementService) Scan(_ context.Context) (*domain.ScanResult, error) {
	return nil, m.Err
}

func (m *MockRequirementService) Validate(_ context.Context) ([]domain.ParsedRequirement, error) {
	return m.Reqs, m.Err
}

func (m *MockRequirementService) Init(_ context.Context, _ bool) (*domain.InitResult, error) {
	return nil, m.Err
}

func (m *MockRequirementService) Check(_ context.Context) (*domain.CheckResult, error) {
	return nil, m.Err
}

func (m *MockRequirementService) Lock(_ context.Context) (*domain.LockResult, error) {
	return nil, m.Err
}

func (m *MockRequirementService) Get(_ context.Context, id string) (*domain.RequirementDetail, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, pr := range m.Reqs {
		if pr.ID() == id {
			return &domain.RequirementDetail{Requirement: pr}, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockRequirementService) List(
	_ context.Context, filter domain.RequirementFilter,
) ([]domain.ParsedRequirement, error) {
	var out []domain.ParsedRequirement
	for _, pr := range m.Reqs {
		if filter.Matches(pr) {
			out = append(out, pr)
		}
	}
	return out, m.Err
}

func testRequirements() []domain.ParsedRequirement {
	return []domain.ParsedRequirement{
		{Requirement: domain.NewRequirement("REQ-CORE-1", "Parse documents", domain.WithCritical(true)), Source: "README.md"},
		{Requirement: domain.NewRequirement("REQ-UI-1", "Show a list", domain.WithParents("REQ-CORE-1")), Source: "ui.md"},
	}
}
