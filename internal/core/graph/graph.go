// Package graph links parsed requirements into a parent/child graph and
// checks the structural rules a requirement collection must satisfy.
package graph

import (
	"slices"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// Graph indexes a requirement collection by ID and keeps the reverse
// child-of index. A Graph is built fresh for every validation pass and is
// read-only afterwards.
type Graph struct {
	order      []string
	byID       map[string]domain.ParsedRequirement
	childrenOf map[string][]string
}

// Build indexes reqs. A second record with an already indexed ID fails
// with a duplicate-requirement error naming both sources.
//
// Every parent reference adds an entry to the children index, whether or
// not the parent itself is in the collection.
func Build(reqs []domain.ParsedRequirement) (*Graph, error) {
	g := &Graph{
		order:      make([]string, 0, len(reqs)),
		byID:       make(map[string]domain.ParsedRequirement, len(reqs)),
		childrenOf: make(map[string][]string),
	}
	for _, pr := range reqs {
		id := pr.ID()
		if first, ok := g.byID[id]; ok {
			return nil, domain.NewDuplicateRequirementError(id, first.Source, pr.Source)
		}
		g.byID[id] = pr
		g.order = append(g.order, id)
	}
	for _, id := range g.order {
		for _, parent := range g.byID[id].Requirement.Parents() {
			g.childrenOf[parent] = append(g.childrenOf[parent], id)
		}
	}
	return g, nil
}

// FromRequirements builds a graph over requirements that carry no
// provenance, such as those read back from a lockfile.
func FromRequirements(reqs []domain.Requirement, source string) (*Graph, error) {
	parsed := make([]domain.ParsedRequirement, len(reqs))
	for i, r := range reqs {
		parsed[i] = domain.ParsedRequirement{Requirement: r, Source: source}
	}
	return Build(parsed)
}

// Len returns the number of requirements.
func (g *Graph) Len() int { return len(g.order) }

// IDs returns every ID in input order.
func (g *Graph) IDs() []string { return slices.Clone(g.order) }

// Get returns the requirement with the given ID.
func (g *Graph) Get(id string) (domain.ParsedRequirement, bool) {
	pr, ok := g.byID[id]
	return pr, ok
}

// Has reports whether id is in the collection.
func (g *Graph) Has(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// Requirements returns the collection in input order.
func (g *Graph) Requirements() []domain.ParsedRequirement {
	out := make([]domain.ParsedRequirement, len(g.order))
	for i, id := range g.order {
		out[i] = g.byID[id]
	}
	return out
}

// Children returns the IDs declaring id as a parent, in input order.
func (g *Graph) Children(id string) []string {
	return slices.Clone(g.childrenOf[id])
}

// Parents returns the declared parents of id that exist in the graph.
func (g *Graph) Parents(id string) []string {
	pr, ok := g.byID[id]
	if !ok {
		return nil
	}
	var out []string
	for _, p := range pr.Requirement.Parents() {
		if g.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Roots returns the requirements none of whose declared parents exist in
// the graph, in input order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.order {
		if len(g.Parents(id)) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// Ancestors returns every requirement reachable from id by following
// parent references, nearest first in depth-first order. Each ancestor
// appears once and id itself is never included. The walk uses an
// explicit stack and is safe on cyclic graphs.
func (g *Graph) Ancestors(id string) []string {
	seen := map[string]bool{id: true}
	var out []string
	stack := reversed(g.Parents(id))
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[next] {
			continue
		}
		seen[next] = true
		out = append(out, next)
		stack = append(stack, reversed(g.Parents(next))...)
	}
	return out
}

// Descendants returns every requirement reachable from id by following
// the children index, in depth-first order.
func (g *Graph) Descendants(id string) []string {
	seen := map[string]bool{id: true}
	var out []string
	stack := reversed(g.childrenOf[id])
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[next] {
			continue
		}
		seen[next] = true
		out = append(out, next)
		stack = append(stack, reversed(g.childrenOf[next])...)
	}
	return out
}

// Edge is a child-of link from a requirement to one of its parents.
type Edge struct {
	Child  string
	Parent string
}

// Edges returns every child-of link between requirements in the graph,
// ordered by child then by declaration.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, id := range g.order {
		for _, p := range g.Parents(id) {
			edges = append(edges, Edge{Child: id, Parent: p})
		}
	}
	return edges
}

func reversed(ids []string) []string {
	out := slices.Clone(ids)
	slices.Reverse(out)
	return out
}
