// Package diff compares two requirement collections.
package diff

import "github.com/custodia-labs/reqsnake/internal/core/domain"

// Compare classifies requirement IDs between before and after. Added holds
// IDs only in after, Removed IDs only in before, and Changed IDs in both
// whose requirements are not Equal. Added and Changed follow the order of
// after, Removed the order of before. When an ID repeats inside one collection its
// first occurrence is used.
//
// Compare does not require either collection to be valid.
func Compare(before, after []domain.Requirement) domain.Diff {
	oldByID := index(before)
	newByID := index(after)

	var d domain.Diff
	seen := make(map[string]bool, len(after))
	for _, r := range after {
		id := r.ID()
		if seen[id] {
			continue
		}
		seen[id] = true

		prev, ok := oldByID[id]
		switch {
		case !ok:
			d.Added = append(d.Added, id)
		case !prev.Equal(newByID[id]):
			d.Changed = append(d.Changed, id)
		}
	}

	seen = make(map[string]bool, len(before))
	for _, r := range before {
		id := r.ID()
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := newByID[id]; !ok {
			d.Removed = append(d.Removed, id)
		}
	}
	return d
}

// CompareParsed is Compare over parsed collections, ignoring provenance.
func CompareParsed(before, after []domain.ParsedRequirement) domain.Diff {
	return Compare(domain.Requirements(before), domain.Requirements(after))
}

func index(reqs []domain.Requirement) map[string]domain.Requirement {
	m := make(map[string]domain.Requirement, len(reqs))
	for _, r := range reqs {
		if _, ok := m[r.ID()]; !ok {
			m[r.ID()] = r
		}
	}
	return m
}
