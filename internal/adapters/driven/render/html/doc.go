// Package html renders the requirement site as standalone HTML pages by
// converting the markdown renderer's output with goldmark (GitHub
// Flavored Markdown). Links between pages are rewritten from .md to
// .html and mermaid code fences become mermaid diagram blocks.
package html
