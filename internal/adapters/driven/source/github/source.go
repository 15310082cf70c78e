package github

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/reqsnake/internal/adapters/driven/source/ignore"
	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
)

// MaxFileSize is the largest document fetched. A larger selected file
// fails the listing.
const MaxFileSize = 1024 * 1024

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// Config selects documents within the repository.
type Config struct {
	Repository Repository
	Include    []string
	IgnoreFile string
}

// Source reads markdown documents from a GitHub repository.
type Source struct {
	client *Client
	config Config

	mu     sync.Mutex
	closed bool
}

// New creates a GitHub document source.
func New(client *Client, cfg Config) *Source {
	if len(cfg.Include) == 0 {
		cfg.Include = []string{"*.md"}
	}
	return &Source{client: client, config: cfg}
}

// Type returns "github".
func (s *Source) Type() string { return "github" }

// Root returns "owner/repo[@ref]".
func (s *Source) Root() string { return s.config.Repository.String() }

// Capabilities returns the source's capabilities.
func (s *Source) Capabilities() driven.SourceCapabilities {
	return driven.SourceCapabilities{SupportsRateLimiting: true}
}

// Validate checks that the repository is reachable.
func (s *Source) Validate(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}
	repo := s.config.Repository
	_, err := s.client.GetRepository(ctx, repo.Owner, repo.Name)
	return mapError(err, repo)
}

// Documents streams every selected markdown file, ordered by path.
func (s *Source) Documents(ctx context.Context) (<-chan domain.SourceDocument, <-chan error) {
	docs := make(chan domain.SourceDocument)
	errs := make(chan error, 1)

	go func() {
		defer close(docs)
		defer close(errs)

		if s.isClosed() {
			errs <- ErrClosed
			return
		}

		repo := s.config.Repository
		ref, entries, err := s.listEntries(ctx)
		if err != nil {
			errs <- mapError(err, repo)
			return
		}

		for _, entry := range entries {
			content, err := s.client.GetBlobContent(ctx, repo.Owner, repo.Name, entry.GetSHA())
			if err != nil {
				errs <- fmt.Errorf("fetch %s: %w", entry.GetPath(), mapError(err, repo))
				return
			}
			doc := domain.SourceDocument{
				Source:  repo.DocumentURI(entry.GetPath()),
				Content: string(content),
				Metadata: map[string]any{
					"owner":    repo.Owner,
					"repo":     repo.Name,
					"ref":      ref,
					"path":     entry.GetPath(),
					"sha":      entry.GetSHA(),
					"html_url": repo.HTMLURL(ref, entry.GetPath()),
				},
			}
			select {
			case docs <- doc:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
	}()

	return docs, errs
}

// Watch is not supported.
func (s *Source) Watch(_ context.Context) (<-chan domain.DocumentChange, error) {
	return nil, ErrWatchUnsupported
}

// Close marks the source closed.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// listEntries resolves the ref and returns the selected blob entries
// sorted by path.
func (s *Source) listEntries(ctx context.Context) (string, []*gh.TreeEntry, error) {
	repo := s.config.Repository
	ref := repo.Ref
	if ref == "" {
		r, err := s.client.GetRepository(ctx, repo.Owner, repo.Name)
		if err != nil {
			return "", nil, err
		}
		ref = r.GetDefaultBranch()
	}

	tree, err := s.client.GetTree(ctx, repo.Owner, repo.Name, ref)
	if err != nil {
		return "", nil, err
	}
	if tree.GetTruncated() {
		return "", nil, fmt.Errorf("%w: %s has more entries than one API call returns", ErrTreeTruncated, repo)
	}

	matcher := ignore.New()
	for _, entry := range tree.Entries {
		if s.config.IgnoreFile != "" && entry.GetType() == "blob" && entry.GetPath() == s.config.IgnoreFile {
			content, err := s.client.GetBlobContent(ctx, repo.Owner, repo.Name, entry.GetSHA())
			if err != nil {
				return "", nil, fmt.Errorf("fetch ignore file: %w", err)
			}
			m, err := ignore.Parse(bytes.NewReader(content))
			if err != nil {
				return "", nil, fmt.Errorf("parse ignore file: %w", err)
			}
			matcher = m
			break
		}
	}

	var selected []*gh.TreeEntry
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		p := entry.GetPath()
		if inHiddenDir(p) || !s.selected(p) || matcher.Match(p) {
			continue
		}
		if entry.GetSize() > MaxFileSize {
			return "", nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrFileTooLarge, p, entry.GetSize(), MaxFileSize)
		}
		selected = append(selected, entry)
	}
	slices.SortFunc(selected, func(a, b *gh.TreeEntry) int {
		return strings.Compare(a.GetPath(), b.GetPath())
	})
	return ref, selected, nil
}

func (s *Source) selected(p string) bool {
	base := path.Base(p)
	for _, pattern := range s.config.Include {
		if ok, err := path.Match(pattern, base); err == nil && ok {
			return true
		}
		if ok, err := path.Match(pattern, p); err == nil && ok {
			return true
		}
	}
	return false
}

// inHiddenDir reports whether any directory of p starts with ".".
func inHiddenDir(p string) bool {
	dirs := strings.Split(p, "/")
	for _, d := range dirs[:len(dirs)-1] {
		if strings.HasPrefix(d, ".") {
			return true
		}
	}
	return false
}

func (s *Source) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// mapError tags API failures with the matching domain sentinel.
func mapError(err error, repo Repository) error {
	switch {
	case err == nil:
		return nil
	case IsNotFound(err):
		return fmt.Errorf("%w: repository %s: %w", domain.ErrNotFound, repo, err)
	case IsUnauthorized(err):
		return fmt.Errorf("%w: %w", domain.ErrAuthRequired, err)
	case IsRateLimited(err):
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	default:
		return err
	}
}
