package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Requirement represents a requirement parsed from a Markdown block-quote.
//
// A Requirement is a value: it is built once by NewRequirement and never
// mutated afterwards. Fields are read through accessors; Parents returns
// a copy so callers cannot alias the internal slice.
type Requirement struct {
	id          string
	description string
	critical    bool
	completed   bool
	parents     []string
}

// RequirementOption sets an optional field during NewRequirement.
type RequirementOption func(*Requirement)

// WithCritical sets the critical flag.
func WithCritical(critical bool) RequirementOption {
	return func(r *Requirement) {
		r.critical = critical
	}
}

// WithCompleted sets the completed flag.
func WithCompleted(completed bool) RequirementOption {
	return func(r *Requirement) {
		r.completed = completed
	}
}

// WithParents sets the ordered list of parent IDs ("child-of" references).
func WithParents(parents ...string) RequirementOption {
	return func(r *Requirement) {
		r.parents = slices.Clone(parents)
	}
}

// NewRequirement builds a Requirement. Flags default to false and the
// parent list defaults to empty.
func NewRequirement(id, description string, opts ...RequirementOption) Requirement {
	r := Requirement{id: id, description: description}
	for _, opt := range opts {
		opt(&r)
	}
	// Empty and nil parent lists compare equal everywhere; keep one form.
	if len(r.parents) == 0 {
		r.parents = nil
	}
	return r
}

// ID returns the unique identifier, e.g. "REQ-CORE-1".
func (r Requirement) ID() string { return r.id }

// Description returns the free-text summary, markdown left untouched.
func (r Requirement) Description() string { return r.description }

// Critical reports whether the requirement is marked critical.
func (r Requirement) Critical() bool { return r.critical }

// Completed reports whether the requirement is marked completed.
func (r Requirement) Completed() bool { return r.completed }

// Parents returns a copy of the declared parent IDs in declaration order.
func (r Requirement) Parents() []string { return slices.Clone(r.parents) }

// ParentCount returns the number of declared parents.
func (r Requirement) ParentCount() int { return len(r.parents) }

// HasParent reports whether id is one of the declared parents (exact match).
func (r Requirement) HasParent(id string) bool {
	return slices.Contains(r.parents, id)
}

// Equal compares two requirements field by field. Parents are compared
// as ordered sequences.
func (r Requirement) Equal(other Requirement) bool {
	return r.id == other.id &&
		r.description == other.description &&
		r.critical == other.critical &&
		r.completed == other.completed &&
		slices.Equal(r.parents, other.parents)
}

// Category returns the ID without its trailing numeric part, so
// "REQ-CORE-7" belongs to "REQ-CORE". IDs without a dash fall into "OTHER".
func (r Requirement) Category() string {
	return CategoryOf(r.id)
}

// CategoryOf returns the category part of a requirement ID.
func CategoryOf(id string) string {
	i := strings.LastIndex(id, "-")
	if i < 0 {
		return "OTHER"
	}
	return id[:i]
}

// String returns a single-line representation for diagnostics.
func (r Requirement) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", r.id, r.description)
	if r.critical {
		b.WriteString(" [critical]")
	}
	if r.completed {
		b.WriteString(" [completed]")
	}
	if len(r.parents) > 0 {
		fmt.Fprintf(&b, " (child-of %s)", strings.Join(r.parents, ", "))
	}
	return b.String()
}

// ParsedRequirement is a requirement and the token of the document it was
// parsed from. The token is provenance only: it never takes part in
// equality or graph logic.
type ParsedRequirement struct {
	Requirement Requirement
	Source      string
}

// ID is shorthand for pr.Requirement.ID().
func (pr ParsedRequirement) ID() string { return pr.Requirement.ID() }

// Requirements strips provenance from a parsed collection, keeping order.
func Requirements(parsed []ParsedRequirement) []Requirement {
	out := make([]Requirement, len(parsed))
	for i, pr := range parsed {
		out[i] = pr.Requirement
	}
	return out
}

// RequirementFilter selects requirements for listing. Zero-value fields
// mean "no filter" for that dimension.
type RequirementFilter struct {
	// CriticalOnly keeps only critical requirements.
	CriticalOnly bool

	// Completed, when non-nil, keeps requirements whose completed flag matches.
	Completed *bool

	// Source keeps requirements parsed from this document token.
	Source string

	// Category keeps requirements whose Category matches exactly.
	Category string

	// Contains keeps requirements whose ID or description contains this
	// text (case-insensitive).
	Contains string
}

// Matches reports whether pr passes every set dimension of the filter.
func (f RequirementFilter) Matches(pr ParsedRequirement) bool {
	req := pr.Requirement
	if f.CriticalOnly && !req.Critical() {
		return false
	}
	if f.Completed != nil && req.Completed() != *f.Completed {
		return false
	}
	if f.Source != "" && pr.Source != f.Source {
		return false
	}
	if f.Category != "" && req.Category() != f.Category {
		return false
	}
	if f.Contains != "" {
		needle := strings.ToLower(f.Contains)
		if !strings.Contains(strings.ToLower(req.ID()), needle) &&
			!strings.Contains(strings.ToLower(req.Description()), needle) {
			return false
		}
	}
	return true
}
