// Package ignore matches document paths against gitignore-style patterns
// read from a project's ignore file.
package ignore

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// DefaultFileName is the ignore file looked up at the project root.
const DefaultFileName = ".requirementsignore"

// Matcher evaluates paths against an ordered list of patterns.
// The last matching pattern decides; a negated match re-includes the path.
type Matcher struct {
	raw     []string
	matcher gitignore.Matcher
}

// New builds a matcher from pattern lines. Blank lines and lines
// starting with "#" are skipped.
func New(lines ...string) *Matcher {
	m := &Matcher{}
	var patterns []gitignore.Pattern
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.raw = append(m.raw, line)
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	m.matcher = gitignore.NewMatcher(patterns)
	return m
}

// Parse reads pattern lines from r. Content that is not valid UTF-8
// yields an empty matcher.
func Parse(r io.Reader) (*Matcher, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return New(), nil
	}

	var lines []string
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return New(lines...), nil
}

// Load reads the ignore file at filename. A missing file yields an
// empty matcher.
func Load(filename string) (*Matcher, error) {
	f, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Patterns returns the rules as written, in file order.
func (m *Matcher) Patterns() []string {
	return append([]string(nil), m.raw...)
}

// Len returns the number of rules.
func (m *Matcher) Len() int { return len(m.raw) }

// Match reports whether the file at rel (relative to the project root)
// is ignored, either by a rule naming it or by a rule naming one of its
// directories. Both "/" and "\" are accepted as separators.
func (m *Matcher) Match(rel string) bool {
	if m == nil || len(m.raw) == 0 {
		return false
	}
	parts := split(rel)
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, false)
}

func split(p string) []string {
	p = strings.ReplaceAll(p, `\`, "/")
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" && s != "." {
			out = append(out, s)
		}
	}
	return out
}
