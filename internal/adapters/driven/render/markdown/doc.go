// Package markdown renders requirement collections as markdown pages,
// status reports and Graphviz dot graphs.
//
// The site layout is one page per requirement at CATEGORY/ID.md plus an
// index.md grouping requirements by category. Pages embed mermaid
// diagrams: a mindmap of direct children and a flowchart of the full
// parent hierarchy.
package markdown
