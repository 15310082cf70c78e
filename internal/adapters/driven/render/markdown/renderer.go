package markdown

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/graph"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
)

// IndexPage is the path of the index page within the site.
const IndexPage = "index.md"

// diagramWords is the number of description words shown in diagram nodes.
const diagramWords = 7

// Ensure Renderer implements the interface.
var _ driven.SiteRenderer = (*Renderer)(nil)

// Renderer produces markdown pages.
type Renderer struct{}

// New creates a markdown renderer.
func New() *Renderer {
	return &Renderer{}
}

// PagePath returns the site path of a requirement page.
func PagePath(id string) string {
	return domain.CategoryOf(id) + "/" + id + ".md"
}

// Pages renders the index and one page per requirement, index first.
func (r *Renderer) Pages(reqs []domain.ParsedRequirement, opts domain.SiteOptions) ([]domain.Page, error) {
	g, err := graph.Build(reqs)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	pages := make([]domain.Page, 0, len(reqs)+1)
	pages = append(pages, domain.Page{Path: IndexPage, Content: []byte(Index(reqs))})
	for _, pr := range g.Requirements() {
		pages = append(pages, domain.Page{
			Path:    PagePath(pr.ID()),
			Content: []byte(r.RequirementPage(pr, g, opts.SourceRoot)),
		})
	}
	return pages, nil
}

// RequirementPage renders the page of a single requirement. sourceRoot
// is the path from the site root to the project root.
func (r *Renderer) RequirementPage(pr domain.ParsedRequirement, g *graph.Graph, sourceRoot string) string {
	req := pr.Requirement
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", req.ID())
	if req.Critical() {
		b.WriteString("⚠️ **Critical requirement**\n\n")
	}
	fmt.Fprintf(&b, "%s\n\n", req.Description())
	if req.Completed() {
		b.WriteString("✅ **Completed**\n\n")
	}

	children := g.Children(req.ID())
	slices.Sort(children)

	if len(children) > 0 {
		b.WriteString("## Children Mindmap\n\n```mermaid\nmindmap\n")
		fmt.Fprintf(&b, "  root((%s))\n", mermaidText(req.ID()))
		for _, id := range children {
			c, _ := g.Get(id)
			fmt.Fprintf(&b, "    %s[%s]\n", id, mermaidText(id+": "+truncateWords(c.Requirement.Description(), diagramWords)))
		}
		b.WriteString("```\n\n")
	}

	parents := req.Parents()
	if len(parents) > 0 {
		fmt.Fprintf(&b, "## Parents (%d/%d completed)\n\n", countCompleted(g, parents), len(parents))
		for _, id := range parents {
			writeLink(&b, g, id)
		}
		b.WriteString("\n")
	}

	if len(children) > 0 {
		fmt.Fprintf(&b, "## Children (%d/%d completed)\n\n", countCompleted(g, children), len(children))
		for _, id := range children {
			writeLink(&b, g, id)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n")
	fmt.Fprintf(&b, "*Source: %s*\n", sourceLink(pr.Source, sourceRoot))

	if len(parents) > 0 {
		b.WriteString("\n## Parent Hierarchy Flowchart\n\n")
		writeFlowchart(&b, pr, g)
	}
	return b.String()
}

// Index renders the index page grouped by category.
func Index(reqs []domain.ParsedRequirement) string {
	var b strings.Builder
	summary := domain.Summarize(reqs)

	b.WriteString("# Requirements Index\n\n")
	fmt.Fprintf(&b, "**Overall completion: %d/%d requirements** %s\n\n",
		summary.Completed, summary.Total, ProgressBar(summary.Completed, summary.Total, 20))

	groups := make(map[string][]domain.ParsedRequirement)
	for _, pr := range reqs {
		cat := pr.Requirement.Category()
		groups[cat] = append(groups[cat], pr)
	}
	categories := make([]string, 0, len(groups))
	for cat := range groups {
		categories = append(categories, cat)
	}
	slices.Sort(categories)

	for _, cat := range categories {
		members := slices.Clone(groups[cat])
		slices.SortFunc(members, func(a, b domain.ParsedRequirement) int {
			return strings.Compare(a.ID(), b.ID())
		})
		done := domain.Summarize(members).Completed

		fmt.Fprintf(&b, "## %s\n*Completion: %d/%d requirements*\n\n", cat, done, len(members))
		for _, pr := range members {
			req := pr.Requirement
			fmt.Fprintf(&b, "- %s %s[%s](./%s): %s\n",
				statusMark(req), criticalMark(req), req.ID(), PagePath(req.ID()), req.Description())
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sourceLink(source, sourceRoot string) string {
	if sourceRoot == "" || strings.Contains(source, "://") || source == domain.UnknownSource {
		return source
	}
	// Requirement pages sit one directory below the site root.
	return fmt.Sprintf("[%s](%s)", source, path.Join("..", sourceRoot, source))
}

func writeLink(b *strings.Builder, g *graph.Graph, id string) {
	target := "../" + PagePath(id)
	if pr, ok := g.Get(id); ok {
		fmt.Fprintf(b, "- [%s](%s) - %s\n", id, target, pr.Requirement.Description())
		return
	}
	fmt.Fprintf(b, "- [%s](%s)\n", id, target)
}

// writeFlowchart draws the requirement and every ancestor with the
// child-of edges between them. Declared parents missing from the graph
// appear as bare nodes.
func writeFlowchart(b *strings.Builder, pr domain.ParsedRequirement, g *graph.Graph) {
	id := pr.ID()
	nodes := append([]string{id}, g.Ancestors(id)...)

	b.WriteString("```mermaid\ngraph TD\n")
	var missing []string
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		seen[n] = true
	}
	for _, n := range nodes {
		desc := pr.Requirement.Description()
		if n != id {
			p, _ := g.Get(n)
			desc = p.Requirement.Description()
		}
		label := mermaidText(n + ": " + truncateWords(desc, diagramWords))
		if n == id {
			fmt.Fprintf(b, "    %s[%s]:::current\n", n, label)
		} else {
			fmt.Fprintf(b, "    %s[%s]\n", n, label)
		}
	}

	var edges []string
	for _, n := range nodes {
		var declared []string
		if n == id {
			declared = pr.Requirement.Parents()
		} else {
			p, _ := g.Get(n)
			declared = p.Requirement.Parents()
		}
		for _, parent := range declared {
			edges = append(edges, fmt.Sprintf("    %s --> %s\n", n, parent))
			if !seen[parent] {
				seen[parent] = true
				missing = append(missing, parent)
			}
		}
	}
	for _, n := range missing {
		fmt.Fprintf(b, "    %s[%s]\n", n, mermaidText(n))
	}
	for _, e := range edges {
		b.WriteString(e)
	}
	b.WriteString("    classDef current fill:#ff9800,stroke:#e65100,stroke-width:3px,color:#fff\n")
	b.WriteString("```\n")
}

func countCompleted(g *graph.Graph, ids []string) int {
	n := 0
	for _, id := range ids {
		if pr, ok := g.Get(id); ok && pr.Requirement.Completed() {
			n++
		}
	}
	return n
}

// mermaidText quotes node text as a mermaid markdown string.
func mermaidText(s string) string {
	return "\"`" + strings.ReplaceAll(s, "`", "'") + "`\""
}

func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ") + "..."
}

func statusMark(req domain.Requirement) string {
	if req.Completed() {
		return "✅"
	}
	return "⏳"
}

func criticalMark(req domain.Requirement) string {
	if req.Critical() {
		return "⚠️ "
	}
	return ""
}
