package markdown

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// dotLabelChars is the number of description characters shown per node.
const dotLabelChars = 20

// Graph renders the hierarchy in Graphviz dot format with edges pointing
// from parent to child. Completed nodes are green, open critical nodes red.
func (r *Renderer) Graph(reqs []domain.ParsedRequirement) ([]byte, error) {
	known := make(map[string]bool, len(reqs))
	for _, pr := range reqs {
		known[pr.ID()] = true
	}

	var b strings.Builder
	b.WriteString("digraph requirements {\n")
	b.WriteString("    node [shape=box];\n")
	for _, pr := range reqs {
		req := pr.Requirement
		desc := []rune(req.Description())
		label := string(desc)
		if len(desc) > dotLabelChars {
			label = string(desc[:dotLabelChars]) + "..."
		}
		attrs := ""
		switch {
		case req.Completed():
			attrs = ", style=filled, fillcolor=lightgreen"
		case req.Critical():
			attrs = ", style=filled, fillcolor=red"
		}
		fmt.Fprintf(&b, "    %s [label=%s%s];\n", dotID(req.ID()), dotID(req.ID()+"\n"+label), attrs)
	}
	for _, pr := range reqs {
		for _, p := range pr.Requirement.Parents() {
			if known[p] {
				fmt.Fprintf(&b, "    %s -> %s;\n", dotID(p), dotID(pr.ID()))
			}
		}
	}
	b.WriteString("}\n")
	return []byte(b.String()), nil
}

// dotID quotes s as a dot string.
func dotID(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}
