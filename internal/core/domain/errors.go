package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown source or snapshot format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrOutOfDate indicates the lockfile no longer matches the documents.
	ErrOutOfDate = errors.New("lockfile out of date")

	// Source Errors.

	// ErrAuthRequired indicates the source requires authentication but none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// Requirement error categories. Every *Error matches exactly one of them
// through errors.Is.
var (
	// ErrParse is the category of errors raised while reading a block.
	ErrParse = errors.New("parse error")

	// ErrValidation is the category of errors raised over a whole collection.
	ErrValidation = errors.New("validation error")
)

// Requirement error kinds, one sentinel per ErrorKind.
var (
	// ErrInvalidID indicates an ID that is not ASCII or does not match
	// the identifier pattern.
	ErrInvalidID = errors.New("invalid requirement id")

	// ErrUnknownAttribute indicates an attribute line matching no keyword.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrDuplicateParent indicates one record naming the same parent twice.
	ErrDuplicateParent = errors.New("duplicate parent")

	// ErrDuplicateRequirement indicates an ID defined by two records.
	ErrDuplicateRequirement = errors.New("duplicate requirement")

	// ErrCircularDependency indicates a cycle in the child-of graph.
	ErrCircularDependency = errors.New("circular dependency")

	// ErrCompletionViolation indicates a completed requirement with an
	// incomplete child.
	ErrCompletionViolation = errors.New("completion violation")

	// ErrMissingParent indicates a child-of reference to an unknown ID.
	ErrMissingParent = errors.New("missing parent")
)

// ErrorKind tags an *Error with the rule that was broken.
type ErrorKind uint8

// Error kinds. Parse kinds come first, validation kinds after.
const (
	KindInvalidID ErrorKind = iota + 1
	KindUnknownAttribute
	KindDuplicateParent
	KindDuplicateRequirement
	KindCircularDependency
	KindCompletionViolation
	KindMissingParent
)

// String returns the snake_case name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidID:
		return "invalid_id"
	case KindUnknownAttribute:
		return "unknown_attribute"
	case KindDuplicateParent:
		return "duplicate_parent"
	case KindDuplicateRequirement:
		return "duplicate_requirement"
	case KindCircularDependency:
		return "circular_dependency"
	case KindCompletionViolation:
		return "completion_violation"
	case KindMissingParent:
		return "missing_parent"
	default:
		return "unknown"
	}
}

// IsParse reports whether the kind is raised by the parser rather than
// by a validator.
func (k ErrorKind) IsParse() bool {
	return k == KindInvalidID || k == KindUnknownAttribute || k == KindDuplicateParent
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidID:
		return ErrInvalidID
	case KindUnknownAttribute:
		return ErrUnknownAttribute
	case KindDuplicateParent:
		return ErrDuplicateParent
	case KindDuplicateRequirement:
		return ErrDuplicateRequirement
	case KindCircularDependency:
		return ErrCircularDependency
	case KindCompletionViolation:
		return ErrCompletionViolation
	case KindMissingParent:
		return ErrMissingParent
	default:
		return nil
	}
}

// CompletionViolation is a completed parent with an incomplete child.
type CompletionViolation struct {
	Parent string
	Child  string
}

// Error is the single error type raised by parsing and validation.
// Kind selects which payload fields are meaningful:
//
//   - KindInvalidID: ID, Reason
//   - KindUnknownAttribute: ID, Line
//   - KindDuplicateParent: ID, Parent
//   - KindDuplicateRequirement: ID, Locations (first, second)
//   - KindCircularDependency: Path (entry point repeated at the end)
//   - KindCompletionViolation: Violations (all of them)
//   - KindMissingParent: ID (the child), Parent (the missing ID)
//
// Source is set on parse errors to the token of the offending document.
type Error struct {
	Kind       ErrorKind
	ID         string
	Parent     string
	Line       string
	Reason     string
	Source     string
	Locations  []string
	Path       []string
	Violations []CompletionViolation
}

// NewInvalidIDError reports an identifier failing ASCII or format checks.
func NewInvalidIDError(id, reason string) *Error {
	return &Error{Kind: KindInvalidID, ID: id, Reason: reason}
}

// NewUnknownAttributeError reports an attribute line matching no keyword.
func NewUnknownAttributeError(id, line string) *Error {
	return &Error{Kind: KindUnknownAttribute, ID: id, Line: line}
}

// NewDuplicateParentError reports a parent declared twice in one record.
func NewDuplicateParentError(id, parent string) *Error {
	return &Error{Kind: KindDuplicateParent, ID: id, Parent: parent}
}

// NewDuplicateRequirementError reports an ID defined by two records.
func NewDuplicateRequirementError(id, first, second string) *Error {
	return &Error{Kind: KindDuplicateRequirement, ID: id, Locations: []string{first, second}}
}

// NewCircularDependencyError reports a cycle in the parent graph.
func NewCircularDependencyError(path []string) *Error {
	return &Error{Kind: KindCircularDependency, Path: path}
}

// NewCompletionViolationError reports every completed parent with an
// incomplete child.
func NewCompletionViolationError(violations []CompletionViolation) *Error {
	return &Error{Kind: KindCompletionViolation, Violations: violations}
}

// NewMissingParentError reports a child-of reference to an unknown ID.
func NewMissingParentError(child, parent string) *Error {
	return &Error{Kind: KindMissingParent, ID: child, Parent: parent}
}

// WithSource returns a copy of e attributed to a document.
func (e *Error) WithSource(source string) *Error {
	c := *e
	c.Source = source
	return &c
}

// Error returns a human-readable message naming the offending IDs and,
// when known, the document.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.message()
	if e.Source != "" {
		return fmt.Sprintf("%s: %s", e.Source, msg)
	}
	return msg
}

func (e *Error) message() string {
	switch e.Kind {
	case KindInvalidID:
		return fmt.Sprintf("invalid requirement ID %q: %s", e.ID, e.Reason)
	case KindUnknownAttribute:
		return fmt.Sprintf("unknown attribute %q in requirement %s", e.Line, e.ID)
	case KindDuplicateParent:
		return fmt.Sprintf("duplicate parent ID %q in requirement %s (case-insensitive, whitespace-insensitive)",
			e.Parent, e.ID)
	case KindDuplicateRequirement:
		first, second := "", ""
		if len(e.Locations) > 0 {
			first = e.Locations[0]
		}
		if len(e.Locations) > 1 {
			second = e.Locations[1]
		}
		return fmt.Sprintf("duplicate requirement ID %q found in %q, first defined in %q", e.ID, second, first)
	case KindCircularDependency:
		return "circular dependency detected: " + strings.Join(e.Path, " -> ")
	case KindCompletionViolation:
		parts := make([]string, len(e.Violations))
		for i, v := range e.Violations {
			parts[i] = fmt.Sprintf("%s (incomplete child: %s)", v.Parent, v.Child)
		}
		return "requirements marked as completed have incomplete children: " + strings.Join(parts, ", ")
	case KindMissingParent:
		return fmt.Sprintf("requirement %s is child-of unknown requirement %q", e.ID, e.Parent)
	default:
		return "requirement error"
	}
}

// Is matches the kind sentinel and the category sentinel.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	if target == e.Kind.sentinel() {
		return true
	}
	if e.Kind.IsParse() {
		return target == ErrParse
	}
	return target == ErrValidation
}

// AsError extracts the first *Error in err's tree.
func AsError(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
