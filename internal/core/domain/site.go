package domain

// Page is one rendered file of the requirements site.
type Page struct {
	// Path is relative to the site root, using forward slashes.
	Path    string
	Content []byte
}

// SiteOptions selects where and how the site is generated.
type SiteOptions struct {
	Output string
	HTML   bool

	// SourceRoot is the slash-separated path from the site root to the
	// project root, used to link pages to their source documents. Links
	// are omitted when empty.
	SourceRoot string
}

// SiteResult describes a generated site.
type SiteResult struct {
	Output string
	Pages  []string
}
