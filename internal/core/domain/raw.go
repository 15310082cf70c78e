package domain

// SourceDocument is markdown text handed in by a document source.
// It is the source's output before requirement extraction.
type SourceDocument struct {
	// Source is the provenance token attached to every requirement parsed
	// from this document (a relative path, or a github:// URI).
	Source string

	// Content is the document text.
	Content string

	// Metadata contains source-specific key-value pairs.
	Metadata map[string]any
}

// ChangeType represents the type of document change.
type ChangeType int

const (
	// ChangeCreated indicates a new document.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified document.
	ChangeUpdated

	// ChangeDeleted indicates a removed document.
	ChangeDeleted
)

// String returns the lowercase name of the change type.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// DocumentChange is a change event observed while watching a source.
type DocumentChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Source is the token of the affected document.
	Source string
}
