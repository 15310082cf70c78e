package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusFixture() []ParsedRequirement {
	return []ParsedRequirement{
		{Requirement: NewRequirement("REQ-1", "A.", WithCritical(true), WithCompleted(true)), Source: "b.md"},
		{Requirement: NewRequirement("REQ-2", "B.", WithCritical(true)), Source: "a.md"},
		{Requirement: NewRequirement("REQ-3", "C.", WithCompleted(true)), Source: "b.md"},
		{Requirement: NewRequirement("REQ-4", "D."), Source: "b.md"},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(statusFixture())

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 2, s.Critical)
	assert.Equal(t, 1, s.CriticalCompleted)
	assert.InDelta(t, 50.0, s.CompletionPercent(), 0.001)
	assert.InDelta(t, 50.0, s.CriticalCompletionPercent(), 0.001)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Zero(t, s.Total)
	assert.Zero(t, s.CompletionPercent())
	assert.Zero(t, s.CriticalCompletionPercent())
}

func TestGroupBySource(t *testing.T) {
	groups := GroupBySource(statusFixture())

	require.Len(t, groups, 2)
	assert.Equal(t, "a.md", groups[0].Source)
	assert.Len(t, groups[0].Requirements, 1)
	assert.Equal(t, 0, groups[0].Completed)

	assert.Equal(t, "b.md", groups[1].Source)
	require.Len(t, groups[1].Requirements, 3)
	assert.Equal(t, "REQ-1", groups[1].Requirements[0].ID())
	assert.Equal(t, "REQ-3", groups[1].Requirements[1].ID())
	assert.Equal(t, "REQ-4", groups[1].Requirements[2].ID())
	assert.Equal(t, 2, groups[1].Completed)
}

func TestDiff_Helpers(t *testing.T) {
	d := Diff{Added: []string{"REQ-3"}, Changed: []string{"REQ-1", "REQ-2"}}

	assert.False(t, d.IsEmpty())
	assert.Equal(t, 3, d.Count())
	assert.Equal(t, []string{"REQ-3"}, d.IDs(DiffAdded))
	assert.Empty(t, d.IDs(DiffRemoved))
	assert.Equal(t, "changed", DiffChanged.String())
	assert.True(t, Diff{}.IsEmpty())
}
