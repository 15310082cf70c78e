package github

import (
	"fmt"
	"strings"
)

// Repository identifies the repository and ref to read.
type Repository struct {
	Owner string
	Name  string
	// Ref is a branch, tag or commit SHA. Empty means the default branch.
	Ref string
}

// ParseRepository parses "owner/repo" or "owner/repo@ref". A leading
// "https://github.com/" is accepted.
func ParseRepository(s string) (Repository, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimPrefix(v, "https://github.com/")
	v = strings.TrimPrefix(v, "github.com/")

	var repo Repository
	if at := strings.LastIndex(v, "@"); at >= 0 {
		repo.Ref = v[at+1:]
		v = v[:at]
		if repo.Ref == "" {
			return Repository{}, fmt.Errorf("%w: empty ref in %q", ErrInvalidRepository, s)
		}
	}
	v = strings.TrimSuffix(strings.TrimSuffix(v, "/"), ".git")

	owner, name, ok := strings.Cut(v, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, fmt.Errorf("%w: %q (want owner/repo[@ref])", ErrInvalidRepository, s)
	}
	repo.Owner, repo.Name = owner, name
	return repo, nil
}

// String returns "owner/repo" or "owner/repo@ref".
func (r Repository) String() string {
	if r.Ref == "" {
		return r.Owner + "/" + r.Name
	}
	return r.Owner + "/" + r.Name + "@" + r.Ref
}

// DocumentURI returns the source token for a file in the repository.
func (r Repository) DocumentURI(path string) string {
	return fmt.Sprintf("github://%s/%s/%s", r.Owner, r.Name, path)
}

// HTMLURL returns the browser URL of a file at ref.
func (r Repository) HTMLURL(ref, path string) string {
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", r.Owner, r.Name, ref, path)
}
