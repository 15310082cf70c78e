package domain

// ScanResult is the outcome of discovering and parsing documents.
type ScanResult struct {
	// Documents are the source tokens of every document read, in order.
	Documents []string

	// Requirements are the parsed requirements in document order.
	Requirements []ParsedRequirement
}

// InitResult is the outcome of writing the first lockfile.
type InitResult struct {
	Lockfile     string
	Documents    []string
	Requirements []ParsedRequirement
	Digest       string
}

// CheckResult is the outcome of comparing the lockfile to the documents.
type CheckResult struct {
	Lockfile string

	// Diff is computed even when the documents fail validation.
	Diff Diff

	// ValidationError is the validation failure of the fresh parse, if any.
	ValidationError error
}

// UpToDate reports whether the documents are valid and match the lockfile.
func (r *CheckResult) UpToDate() bool {
	return r.ValidationError == nil && r.Diff.IsEmpty()
}

// LockResult is the outcome of updating the lockfile.
type LockResult struct {
	Lockfile string
	Diff     Diff

	// Written is false when the lockfile already matched.
	Written bool

	// Created is true when no lockfile existed before.
	Created bool

	Digest       string
	Requirements int
}

// RequirementDetail is a requirement with its neighbourhood in the graph.
type RequirementDetail struct {
	Requirement ParsedRequirement

	// Parents are the declared parents found in the collection.
	Parents []ParsedRequirement

	// MissingParents are declared parents absent from the collection.
	MissingParents []string

	// Children declare this requirement as a parent.
	Children []ParsedRequirement

	// Ancestors are every requirement reachable through parent links.
	Ancestors []string
}
