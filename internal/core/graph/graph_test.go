package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

func req(id string, opts ...domain.RequirementOption) domain.ParsedRequirement {
	return domain.ParsedRequirement{
		Requirement: domain.NewRequirement(id, "Description of "+id, opts...),
		Source:      "doc.md",
	}
}

func child(id string, parents ...string) domain.ParsedRequirement {
	return req(id, domain.WithParents(parents...))
}

func TestBuild_Indexes(t *testing.T) {
	g, err := Build([]domain.ParsedRequirement{
		req("REQ-1"),
		child("REQ-2", "REQ-1"),
		child("REQ-3", "REQ-1", "REQ-9"),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"REQ-1", "REQ-2", "REQ-3"}, g.IDs())
	assert.True(t, g.Has("REQ-2"))
	assert.False(t, g.Has("REQ-9"))
	assert.Equal(t, []string{"REQ-2", "REQ-3"}, g.Children("REQ-1"))
	assert.Equal(t, []string{"REQ-3"}, g.Children("REQ-9"))
	assert.Empty(t, g.Children("REQ-3"))

	pr, ok := g.Get("REQ-3")
	require.True(t, ok)
	assert.Equal(t, "doc.md", pr.Source)
}

func TestBuild_DuplicateNamesBothSources(t *testing.T) {
	_, err := Build([]domain.ParsedRequirement{
		{Requirement: domain.NewRequirement("REQ-1", "A."), Source: "a.md"},
		{Requirement: domain.NewRequirement("REQ-1", "B."), Source: "b.md"},
	})
	require.ErrorIs(t, err, domain.ErrDuplicateRequirement)

	e, _ := domain.AsError(err)
	assert.Equal(t, []string{"a.md", "b.md"}, e.Locations)
}

func TestGraph_Navigation(t *testing.T) {
	g, err := Build([]domain.ParsedRequirement{
		req("REQ-1"),
		child("REQ-2", "REQ-1"),
		child("REQ-3", "REQ-2", "REQ-4"),
		req("REQ-4"),
		child("REQ-5", "MISSING-1"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"REQ-1", "REQ-4", "REQ-5"}, g.Roots())
	assert.Equal(t, []string{"REQ-2", "REQ-1", "REQ-4"}, g.Ancestors("REQ-3"))
	assert.Empty(t, g.Ancestors("REQ-1"))
	assert.Equal(t, []string{"REQ-2", "REQ-3"}, g.Descendants("REQ-1"))
	assert.Empty(t, g.Parents("REQ-5"))
	assert.Equal(t, []Edge{
		{Child: "REQ-2", Parent: "REQ-1"},
		{Child: "REQ-3", Parent: "REQ-2"},
		{Child: "REQ-3", Parent: "REQ-4"},
	}, g.Edges())
}

func TestGraph_AncestorsOnCycle(t *testing.T) {
	g, err := Build([]domain.ParsedRequirement{
		child("REQ-1", "REQ-2"),
		child("REQ-2", "REQ-1"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"REQ-2"}, g.Ancestors("REQ-1"))
}

func TestFromRequirements(t *testing.T) {
	g, err := FromRequirements([]domain.Requirement{
		domain.NewRequirement("REQ-1", "A."),
	}, domain.UnknownSource)
	require.NoError(t, err)

	pr, ok := g.Get("REQ-1")
	require.True(t, ok)
	assert.Equal(t, domain.UnknownSource, pr.Source)
	assert.Len(t, g.Requirements(), 1)
}
