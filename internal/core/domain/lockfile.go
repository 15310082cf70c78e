package domain

// Lockfile is a requirement snapshot read back from storage.
type Lockfile struct {
	// Version is the format version tag of the stored document.
	Version string

	// Digest identifies the requirement list. For legacy documents it is
	// computed on load.
	Digest string

	// Requirements are in stored order.
	Requirements []Requirement
}
