package domain

// DiffType represents the type of requirement difference.
type DiffType int

const (
	// DiffAdded marks an ID present only in the new collection.
	DiffAdded DiffType = iota

	// DiffRemoved marks an ID present only in the old collection.
	DiffRemoved

	// DiffChanged marks an ID present in both with different fields.
	DiffChanged
)

// String returns the lowercase name of the diff type.
func (d DiffType) String() string {
	switch d {
	case DiffAdded:
		return "added"
	case DiffRemoved:
		return "removed"
	case DiffChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// Diff classifies requirement IDs between an old and a new collection.
// Added and Changed follow the order of the new collection, Removed the
// order of the old one.
type Diff struct {
	Added   []string
	Removed []string
	Changed []string
}

// IsEmpty reports whether the two collections were identical.
func (d Diff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Count returns the total number of differing IDs.
func (d Diff) Count() int {
	return len(d.Added) + len(d.Removed) + len(d.Changed)
}

// IDs returns the IDs for one diff type.
func (d Diff) IDs(t DiffType) []string {
	switch t {
	case DiffAdded:
		return d.Added
	case DiffRemoved:
		return d.Removed
	case DiffChanged:
		return d.Changed
	default:
		return nil
	}
}
