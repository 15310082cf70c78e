package html

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reqsnake/internal/adapters/driven/render/markdown"
	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

func sample() []domain.ParsedRequirement {
	return []domain.ParsedRequirement{
		{Requirement: domain.NewRequirement("REQ-A-1", "Root & thing"), Source: "a.md"},
		{Requirement: domain.NewRequirement("REQ-A-2", "Child", domain.WithParents("REQ-A-1")), Source: "a.md"},
	}
}

func newRenderer() *Renderer {
	return New(markdown.New())
}

func TestRenderer_Pages(t *testing.T) {
	pages, err := newRenderer().Pages(sample(), domain.SiteOptions{SourceRoot: ".."})
	require.NoError(t, err)
	require.Len(t, pages, 3)

	assert.Equal(t, "index.html", pages[0].Path)
	assert.Equal(t, "REQ-A/REQ-A-1.html", pages[1].Path)
	assert.Equal(t, "REQ-A/REQ-A-2.html", pages[2].Path)

	index := string(pages[0].Content)
	assert.True(t, strings.HasPrefix(index, "<!DOCTYPE html>"))
	assert.Contains(t, index, "<title>Requirements Index</title>")
	assert.Contains(t, index, `href="./REQ-A/REQ-A-1.html"`)
	assert.Contains(t, index, "Root &amp; thing")

	root := string(pages[1].Content)
	assert.Contains(t, root, `<pre class="mermaid">`)
	assert.Contains(t, root, "mermaid.initialize")
	assert.Contains(t, root, `href="../REQ-A/REQ-A-2.html"`)
	assert.Contains(t, root, `href="../../a.md"`)
}

func TestRenderer_StatusReport(t *testing.T) {
	reqs := sample()
	out, err := newRenderer().StatusReport(&domain.Status{
		StatusSummary: domain.Summarize(reqs),
		Requirements:  reqs,
		Groups:        domain.GroupBySource(reqs),
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<title>Requirements Status Report</title>")
	assert.Contains(t, string(out), "<h2 id=\"summary\">Summary</h2>")
	assert.NotContains(t, string(out), "mermaid.initialize")
}

func TestRenderer_Graph(t *testing.T) {
	out, err := newRenderer().Graph(sample())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "digraph requirements {"))
}

func TestConvert_CodeBlocks(t *testing.T) {
	out, err := newRenderer().Convert([]byte("```go\nx := 1 < 2\n```\n\n```\nplain\n```\n"))
	require.NoError(t, err)
	assert.Contains(t, string(out), `<pre><code class="language-go">x := 1 &lt; 2`)
	assert.Contains(t, string(out), "<pre><code>plain\n</code></pre>")
	assert.Contains(t, string(out), "<title>Requirements</title>")
}

func TestIsPageLink(t *testing.T) {
	tests := []struct {
		dest string
		want bool
	}{
		{"./REQ-A/REQ-A-1.md", true},
		{"../REQ-A/REQ-A-1.md", true},
		{"../../a.md", false},
		{"../docs/deep/a.md", false},
		{"https://example.com/x/a.md", false},
		{"./REQ-A/REQ-A-1.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			assert.Equal(t, tt.want, isPageLink(tt.dest))
		})
	}
}
