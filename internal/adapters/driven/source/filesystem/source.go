package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/reqsnake/internal/adapters/driven/source/ignore"
	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// ErrClosed is returned by operations on a closed source.
var ErrClosed = errors.New("filesystem: source closed")

// Config selects documents within the root.
type Config struct {
	// Include holds glob patterns matched against the base name and the
	// relative path of each file.
	Include []string

	// IgnoreFile is the ignore file name relative to the root. Empty
	// disables ignore handling.
	IgnoreFile string
}

// ConfigFromSettings maps source settings onto a Config.
func ConfigFromSettings(s domain.SourceSettings) Config {
	return Config{Include: slices.Clone(s.Include), IgnoreFile: s.IgnoreFile}
}

// Source reads markdown documents from a directory tree.
type Source struct {
	root   string
	config Config

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a source rooted at root.
func New(root string, cfg Config) *Source {
	if len(cfg.Include) == 0 {
		cfg.Include = []string{"*.md"}
	}
	return &Source{root: root, config: cfg}
}

// Type returns "filesystem".
func (s *Source) Type() string { return "filesystem" }

// Root returns the project directory.
func (s *Source) Root() string { return s.root }

// Capabilities returns the source's capabilities.
func (s *Source) Capabilities() driven.SourceCapabilities {
	return driven.SourceCapabilities{SupportsWatch: true}
}

// Validate checks that the root exists and is a directory.
func (s *Source) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, s.root)
		}
		return fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, s.root)
	}
	return nil
}

// Documents streams every selected file, ordered by relative path.
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

		paths, err := s.List(ctx)
		if err != nil {
			errs <- err
			return
		}

		for _, rel := range paths {
			doc, err := s.read(rel)
			if err != nil {
				errs <- err
				return
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

// List returns the relative paths of all selected files in sorted order.
func (s *Source) List(ctx context.Context) ([]string, error) {
	matcher, err := s.loadIgnore()
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.WalkDir(s.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != s.root && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := s.relative(p)
		if err != nil {
			return err
		}
		if s.selected(rel) && !matcher.Match(rel) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}

	slices.Sort(paths)
	return paths, nil
}

// Watch reports changes to selected files and to the ignore file.
func (s *Source) Watch(ctx context.Context) (<-chan domain.DocumentChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if s.watcher != nil {
		return nil, errors.New("filesystem: already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := s.addTree(watcher, s.root); err != nil {
		watcher.Close()
		return nil, err
	}
	s.watcher = watcher

	changes := make(chan domain.DocumentChange)
	go func() {
		defer close(changes)
		defer s.stopWatch(watcher)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				change := s.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return changes, nil
}

// Close stops any active watch.
func (s *Source) Close() error {
	s.mu.Lock()
	s.closed = true
	watcher := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	if watcher != nil {
		return watcher.Close()
	}
	return nil
}

// handleFsEvent converts an fsnotify event into a document change, or nil
// when the event does not concern a selected document.
func (s *Source) handleFsEvent(event fsnotify.Event) *domain.DocumentChange {
	rel, err := s.relative(event.Name)
	if err != nil || hasHiddenDir(rel) {
		return nil
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			s.mu.Lock()
			if s.watcher != nil {
				_ = s.addTree(s.watcher, event.Name)
			}
			s.mu.Unlock()
			return nil
		}
	}

	isIgnoreFile := s.config.IgnoreFile != "" && rel == filepath.ToSlash(s.config.IgnoreFile)
	if !isIgnoreFile {
		if !s.selected(rel) {
			return nil
		}
		if matcher, err := s.loadIgnore(); err == nil && matcher.Match(rel) {
			return nil
		}
	}

	var changeType domain.ChangeType
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		changeType = domain.ChangeDeleted
	case event.Has(fsnotify.Create):
		changeType = domain.ChangeCreated
	case event.Has(fsnotify.Write):
		changeType = domain.ChangeUpdated
	default:
		return nil
	}
	return &domain.DocumentChange{Type: changeType, Source: rel}
}

func (s *Source) stopWatch(w *fsnotify.Watcher) {
	s.mu.Lock()
	if s.watcher == w {
		s.watcher = nil
	}
	s.mu.Unlock()
	_ = w.Close()
}

func (s *Source) addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != s.root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

func (s *Source) read(rel string) (domain.SourceDocument, error) {
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	content, err := os.ReadFile(full)
	if err != nil {
		return domain.SourceDocument{}, fmt.Errorf("read %s: %w", rel, err)
	}
	return domain.SourceDocument{
		Source:  rel,
		Content: string(content),
		Metadata: map[string]any{
			"path": full,
			"size": len(content),
		},
	}, nil
}

func (s *Source) loadIgnore() (*ignore.Matcher, error) {
	if s.config.IgnoreFile == "" {
		return ignore.New(), nil
	}
	m, err := ignore.Load(filepath.Join(s.root, s.config.IgnoreFile))
	if err != nil {
		return nil, fmt.Errorf("load ignore file: %w", err)
	}
	return m, nil
}

func (s *Source) selected(rel string) bool {
	base := filepath.Base(filepath.FromSlash(rel))
	for _, pattern := range s.config.Include {
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func (s *Source) relative(p string) (string, error) {
	rel, err := filepath.Rel(s.root, p)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", p, s.root)
	}
	return filepath.ToSlash(rel), nil
}

func (s *Source) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// isHidden reports whether a file or directory name is hidden.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// hasHiddenDir reports whether any directory of rel is hidden.
func hasHiddenDir(rel string) bool {
	parts := strings.Split(rel, "/")
	for _, part := range parts[:len(parts)-1] {
		if isHidden(part) {
			return true
		}
	}
	return false
}
