package domain

import "sort"

// StatusSummary holds completion counts over a requirement collection.
type StatusSummary struct {
	Total             int
	Completed         int
	Critical          int
	CriticalCompleted int
}

// Summarize counts completion over parsed requirements.
func Summarize(reqs []ParsedRequirement) StatusSummary {
	var s StatusSummary
	for _, pr := range reqs {
		req := pr.Requirement
		s.Total++
		if req.Completed() {
			s.Completed++
		}
		if req.Critical() {
			s.Critical++
			if req.Completed() {
				s.CriticalCompleted++
			}
		}
	}
	return s
}

// CompletionPercent returns completed/total as a percentage, 0 when empty.
func (s StatusSummary) CompletionPercent() float64 {
	return percent(s.Completed, s.Total)
}

// CriticalCompletionPercent returns the completion percentage of
// critical requirements, 0 when there are none.
func (s StatusSummary) CriticalCompletionPercent() float64 {
	return percent(s.CriticalCompleted, s.Critical)
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// SourceGroup is the set of requirements parsed from one document.
type SourceGroup struct {
	Source       string
	Requirements []ParsedRequirement
	Completed    int
}

// GroupBySource groups requirements by provenance token. Groups are sorted
// by token; requirements keep document order inside a group.
func GroupBySource(reqs []ParsedRequirement) []SourceGroup {
	index := make(map[string]int)
	var groups []SourceGroup
	for _, pr := range reqs {
		i, ok := index[pr.Source]
		if !ok {
			i = len(groups)
			index[pr.Source] = i
			groups = append(groups, SourceGroup{Source: pr.Source})
		}
		groups[i].Requirements = append(groups[i].Requirements, pr)
		if pr.Requirement.Completed() {
			groups[i].Completed++
		}
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Source < groups[b].Source
	})
	return groups
}

// Status is the report behind the status command.
type Status struct {
	StatusSummary

	// Requirements are the lockfile requirements with provenance from a
	// fresh scan, in lockfile order.
	Requirements []ParsedRequirement

	// Groups are Requirements grouped by source.
	Groups []SourceGroup
}

// UnknownSource is the provenance used for lockfile requirements that no
// longer appear in any scanned document.
const UnknownSource = "unknown"
