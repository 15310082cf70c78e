package markdown

import (
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// StatusReport renders the completion summary, the per-document
// breakdown and the requirement hierarchy.
func (r *Renderer) StatusReport(status *domain.Status) ([]byte, error) {
	if status == nil {
		return nil, fmt.Errorf("%w: nil status", domain.ErrInvalidInput)
	}

	var b strings.Builder
	s := status.StatusSummary

	b.WriteString("# Requirements Status Report\n\n")
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Total requirements:** %d\n", s.Total)
	fmt.Fprintf(&b, "- **Completed:** %d/%d (%.1f%%) %s\n",
		s.Completed, s.Total, s.CompletionPercent(), ProgressBar(s.Completed, s.Total, 20))
	fmt.Fprintf(&b, "- **Critical requirements:** %d\n", s.Critical)
	fmt.Fprintf(&b, "- **Critical completed:** %d/%d (%.1f%%) %s\n\n",
		s.CriticalCompleted, s.Critical, s.CriticalCompletionPercent(),
		ProgressBar(s.CriticalCompleted, s.Critical, 20))

	b.WriteString("## Requirements by File\n\n")
	for _, group := range status.Groups {
		total := len(group.Requirements)
		pct := 0.0
		if total > 0 {
			pct = float64(group.Completed) / float64(total) * 100
		}
		fmt.Fprintf(&b, "### %s\n", group.Source)
		fmt.Fprintf(&b, "- **Completed:** %d/%d (%.1f%%)\n\n", group.Completed, total, pct)
		for _, pr := range group.Requirements {
			writeStatusLine(&b, "", pr.Requirement)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Hierarchical Status\n\n")
	writeTree(&b, status.Requirements)
	b.WriteString("\n")

	return []byte(b.String()), nil
}

func writeStatusLine(b *strings.Builder, indent string, req domain.Requirement) {
	fmt.Fprintf(b, "%s- %s %s**%s**: %s", indent, statusMark(req), criticalMark(req), req.ID(), req.Description())
	if parents := req.Parents(); len(parents) > 0 {
		fmt.Fprintf(b, " _(child of: %s)_", strings.Join(parents, ", "))
	}
	b.WriteString("\n")
}

// writeTree prints every root and its descendants as a nested list.
// A requirement reachable from several parents is listed under each;
// cycles are cut at the first repeat on a path.
func writeTree(b *strings.Builder, reqs []domain.ParsedRequirement) {
	byID := make(map[string]domain.Requirement, len(reqs))
	children := make(map[string][]string)
	var order []string
	for _, pr := range reqs {
		id := pr.ID()
		if _, dup := byID[id]; dup {
			continue
		}
		byID[id] = pr.Requirement
		order = append(order, id)
	}
	for _, id := range order {
		for _, p := range byID[id].Parents() {
			if _, ok := byID[p]; ok {
				children[p] = append(children[p], id)
			}
		}
	}

	var roots []string
	for _, id := range order {
		hasParent := slices.ContainsFunc(byID[id].Parents(), func(p string) bool {
			_, ok := byID[p]
			return ok
		})
		if !hasParent {
			roots = append(roots, id)
		}
	}
	slices.Sort(roots)

	type item struct {
		id    string
		depth int
		path  map[string]bool
	}
	stack := make([]item, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, item{id: roots[i], path: map[string]bool{roots[i]: true}})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		writeStatusLine(b, strings.Repeat("  ", it.depth), byID[it.id])
		kids := children[it.id]
		for i := len(kids) - 1; i >= 0; i-- {
			kid := kids[i]
			if it.path[kid] {
				continue
			}
			path := make(map[string]bool, len(it.path)+1)
			for k := range it.path {
				path[k] = true
			}
			path[kid] = true
			stack = append(stack, item{id: kid, depth: it.depth + 1, path: path})
		}
	}
}
