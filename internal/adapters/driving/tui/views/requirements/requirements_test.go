package requirements

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reqsnake/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driving"
)

// stubService answers Validate; the remaining methods are unused here.
type stubService struct {
	driving.RequirementService
	reqs  []domain.ParsedRequirement
	err   error
	calls int
}

func (s *stubService) Validate(_ context.Context) ([]domain.ParsedRequirement, error) {
	s.calls++
	return s.reqs, s.err
}

func sample() []domain.ParsedRequirement {
	return []domain.ParsedRequirement{
		{Requirement: domain.NewRequirement("REQ-A", "first")},
		{Requirement: domain.NewRequirement("REQ-B", "second")},
	}
}

func TestView_Init(t *testing.T) {
	svc := &stubService{reqs: sample()}
	v := NewView(nil, svc)

	cmd := v.Init()
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.RequirementsLoaded)
	require.True(t, ok)

	assert.NoError(t, msg.Err)
	assert.Len(t, msg.Requirements, 2)
	assert.Equal(t, 1, svc.calls)
}

func TestView_Init_NoService(t *testing.T) {
	v := NewView(nil, nil)

	msg := v.Init()().(messages.RequirementsLoaded)

	assert.ErrorIs(t, msg.Err, ErrNoRequirementService)
}

func TestView_Loaded(t *testing.T) {
	v := NewView(nil, &stubService{})

	v.Update(messages.RequirementsLoaded{Requirements: sample()})

	assert.NoError(t, v.Err())
	assert.Equal(t, 2, v.List().Len())
	assert.Contains(t, v.View(), "REQ-B")
}

func TestView_LoadError(t *testing.T) {
	v := NewView(nil, &stubService{})
	v.Update(messages.RequirementsLoaded{Requirements: sample()})

	v.Update(messages.RequirementsLoaded{Err: errors.New("duplicate id REQ-A\nmore")})

	assert.Error(t, v.Err())
	assert.Equal(t, 0, v.List().Len())
	assert.Contains(t, v.View(), "duplicate id REQ-A")
}

func TestView_Reload(t *testing.T) {
	svc := &stubService{reqs: sample()}
	v := NewView(nil, svc)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, 1, svc.calls)
}

func TestView_Select(t *testing.T) {
	v := NewView(nil, &stubService{})
	v.Update(messages.RequirementsLoaded{Requirements: sample()})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	assert.Equal(t, messages.RequirementSelected{ID: "REQ-B"}, cmd())
}

func TestView_Select_Empty(t *testing.T) {
	v := NewView(nil, &stubService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_FilterCancel(t *testing.T) {
	v := NewView(nil, &stubService{})
	v.Update(messages.RequirementsLoaded{Requirements: sample()})

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	assert.Equal(t, 1, v.List().Len())

	v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, v.Filtering())
	assert.Equal(t, "", v.List().Filter())
	assert.Equal(t, 2, v.List().Len())
}

func TestView_SetDimensions(t *testing.T) {
	v := NewView(nil, &stubService{})

	v.SetDimensions(120, 4)

	assert.Equal(t, 120, v.width)
	assert.Equal(t, 4, v.height)
}
