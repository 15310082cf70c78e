// Package output writes rendered site pages to a directory.
//
// Every generated file is listed in a manifest at the site root. A later
// write removes the files of the previous manifest that are no longer
// produced, so pages of deleted requirements disappear while files the
// tool did not create are left alone.
package output

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
	"github.com/custodia-labs/reqsnake/internal/fsutil"
)

// ManifestName is the file listing the pages of the last write.
const ManifestName = ".reqsnake-site"

// Ensure Writer implements the interface.
var _ driven.SiteWriter = (*Writer)(nil)

// Writer stores pages on the local filesystem.
type Writer struct{}

// NewWriter creates a filesystem site writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write stores pages under dir and removes stale pages of the previous
// write.
func (w *Writer) Write(ctx context.Context, dir string, pages []domain.Page) error {
	previous, err := readManifest(dir)
	if err != nil {
		return err
	}

	current := make([]string, 0, len(pages))
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := pagePath(dir, p.Path)
		if err != nil {
			return err
		}
		if err := fsutil.WriteFileAtomic(target, p.Content, 0o644); err != nil {
			return fmt.Errorf("write page %s: %w", p.Path, err)
		}
		current = append(current, path.Clean(p.Path))
	}

	for _, old := range previous {
		if slices.Contains(current, old) {
			continue
		}
		target, err := pagePath(dir, old)
		if err != nil {
			continue
		}
		if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove stale page %s: %w", old, err)
		}
		removeEmptyParents(dir, filepath.Dir(target))
	}

	return writeManifest(dir, current)
}

// pagePath resolves a slash-separated page path inside dir.
func pagePath(dir, p string) (string, error) {
	clean := path.Clean(p)
	if clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: page path %q", domain.ErrInvalidInput, p)
	}
	return filepath.Join(dir, filepath.FromSlash(clean)), nil
}

func readManifest(dir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var paths []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			paths = append(paths, line)
		}
	}
	return paths, sc.Err()
}

func writeManifest(dir string, paths []string) error {
	sorted := slices.Clone(paths)
	slices.Sort(sorted)
	var b strings.Builder
	for _, p := range sorted {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	if err := fsutil.WriteFileAtomic(filepath.Join(dir, ManifestName), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// removeEmptyParents deletes empty directories from sub up to, but not
// including, root.
func removeEmptyParents(root, sub string) {
	root = filepath.Clean(root)
	for d := filepath.Clean(sub); d != root && strings.HasPrefix(d, root); d = filepath.Dir(d) {
		if os.Remove(d) != nil {
			return
		}
	}
}
