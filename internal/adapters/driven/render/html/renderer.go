package html

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/custodia-labs/reqsnake/internal/adapters/driven/render/markdown"
	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.SiteRenderer = (*Renderer)(nil)

const mermaidScript = `<script type="module">
import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs";
mermaid.initialize({ startOnLoad: true });
</script>
`

// Renderer converts markdown pages to HTML.
type Renderer struct {
	md *markdown.Renderer
	gm goldmark.Markdown
}

// New creates an HTML renderer on top of a markdown renderer.
func New(md *markdown.Renderer) *Renderer {
	return &Renderer{
		md: md,
		gm: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
				parser.WithASTTransformers(util.Prioritized(linkRewriter{}, 100)),
			),
			goldmark.WithRendererOptions(
				renderer.WithNodeRenderers(util.Prioritized(codeBlockRenderer{}, 100)),
			),
		),
	}
}

// Pages renders every markdown page and converts it to HTML.
func (r *Renderer) Pages(reqs []domain.ParsedRequirement, opts domain.SiteOptions) ([]domain.Page, error) {
	pages, err := r.md.Pages(reqs, opts)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Page, 0, len(pages))
	for _, p := range pages {
		content, err := r.Convert(p.Content)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", p.Path, err)
		}
		out = append(out, domain.Page{Path: htmlPath(p.Path), Content: content})
	}
	return out, nil
}

// StatusReport renders the status report as an HTML document.
func (r *Renderer) StatusReport(status *domain.Status) ([]byte, error) {
	md, err := r.md.StatusReport(status)
	if err != nil {
		return nil, err
	}
	return r.Convert(md)
}

// Graph returns the dot graph unchanged.
func (r *Renderer) Graph(reqs []domain.ParsedRequirement) ([]byte, error) {
	return r.md.Graph(reqs)
}

// Convert turns one markdown page into a complete HTML document.
func (r *Renderer) Convert(source []byte) ([]byte, error) {
	var body bytes.Buffer
	if err := r.gm.Convert(source, &body); err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", stdhtml.EscapeString(title(source)))
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	if bytes.Contains(body.Bytes(), []byte(`<pre class="mermaid">`)) {
		b.WriteString(mermaidScript)
	}
	b.WriteString("</body>\n</html>\n")
	return b.Bytes(), nil
}

// title returns the text of the first level-one heading.
func title(source []byte) string {
	for _, line := range strings.Split(string(source), "\n") {
		if t, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(t)
		}
	}
	return "Requirements"
}

func htmlPath(p string) string {
	if base, ok := strings.CutSuffix(p, ".md"); ok {
		return base + ".html"
	}
	return p
}

// linkRewriter points relative links to markdown pages at their HTML
// counterparts.
type linkRewriter struct{}

func (linkRewriter) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		if dest := string(link.Destination); isPageLink(dest) {
			link.Destination = []byte(htmlPath(dest))
		}
		return ast.WalkContinue, nil
	})
}

// isPageLink reports whether dest is a link between site pages, which
// the markdown renderer always writes as ./CATEGORY/ID.md or
// ../CATEGORY/ID.md.
func isPageLink(dest string) bool {
	rest, ok := strings.CutPrefix(dest, "./")
	if !ok {
		rest, ok = strings.CutPrefix(dest, "../")
	}
	if !ok || strings.Contains(rest, "..") || strings.Count(rest, "/") != 1 {
		return false
	}
	return strings.HasSuffix(rest, ".md")
}

// codeBlockRenderer renders fenced code, emitting mermaid fences as
// diagram blocks.
type codeBlockRenderer struct{}

func (codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, renderFencedCodeBlock)
}

func renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := string(n.Language(source))

	closing := "</code></pre>\n"
	switch lang {
	case "mermaid":
		_, _ = w.WriteString(`<pre class="mermaid">`)
		closing = "</pre>\n"
	case "":
		_, _ = w.WriteString("<pre><code>")
	default:
		_, _ = w.WriteString(`<pre><code class="language-`)
		_, _ = w.Write(util.EscapeHTML([]byte(lang)))
		_, _ = w.WriteString(`">`)
	}

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(line.Value(source)))
	}
	_, _ = w.WriteString(closing)
	return ast.WalkSkipChildren, nil
}
