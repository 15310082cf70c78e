package graph

import (
	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// Options selects the optional validators.
type Options struct {
	// MissingParents fails validation when a child-of reference names an
	// ID that is not in the collection.
	MissingParents bool
}

// OptionsFromSettings derives validator options from settings.
func OptionsFromSettings(s domain.ValidationSettings) Options {
	return Options{MissingParents: s.MissingParents}
}

// Validate runs every check in a fixed order and returns the first
// failure: duplicate IDs, cycles, completion consistency, then (when
// enabled) missing parents. On success it returns the built graph.
func Validate(reqs []domain.ParsedRequirement, opts Options) (*Graph, error) {
	if err := CheckDuplicates(reqs); err != nil {
		return nil, err
	}
	g, err := Build(reqs)
	if err != nil {
		return nil, err
	}
	if err := CheckCycles(g); err != nil {
		return nil, err
	}
	if err := CheckCompletion(g); err != nil {
		return nil, err
	}
	if opts.MissingParents {
		if err := CheckMissingParents(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// CheckDuplicates fails on the first ID defined twice, naming the source
// of both definitions.
func CheckDuplicates(reqs []domain.ParsedRequirement) error {
	first := make(map[string]string, len(reqs))
	for _, pr := range reqs {
		id := pr.ID()
		if src, ok := first[id]; ok {
			return domain.NewDuplicateRequirementError(id, src, pr.Source)
		}
		first[id] = pr.Source
	}
	return nil
}

// CheckCompletion collects every completed requirement that has an
// incomplete child. Children missing from the graph are skipped.
func CheckCompletion(g *Graph) error {
	var violations []domain.CompletionViolation
	for _, id := range g.order {
		if !g.byID[id].Requirement.Completed() {
			continue
		}
		for _, child := range g.childrenOf[id] {
			pr, ok := g.byID[child]
			if ok && !pr.Requirement.Completed() {
				violations = append(violations, domain.CompletionViolation{Parent: id, Child: child})
			}
		}
	}
	if len(violations) > 0 {
		return domain.NewCompletionViolationError(violations)
	}
	return nil
}

// CheckMissingParents fails on the first child-of reference to an ID
// outside the collection.
func CheckMissingParents(g *Graph) error {
	for _, id := range g.order {
		for _, parent := range g.byID[id].Requirement.Parents() {
			if !g.Has(parent) {
				return domain.NewMissingParentError(id, parent)
			}
		}
	}
	return nil
}
