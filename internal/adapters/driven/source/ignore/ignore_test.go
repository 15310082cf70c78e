package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SkipsCommentsAndBlanks(t *testing.T) {
	content := `# This is a comment
*.tmp
# Another comment

build/
`
	m, err := Parse(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, []string{"*.tmp", "build/"}, m.Patterns())
}

func TestParse_InvalidUTF8(t *testing.T) {
	m, err := Parse(strings.NewReader("\xff\xfe\x00\x00"))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		m, err := Load(filepath.Join(t.TempDir(), DefaultFileName))
		require.NoError(t, err)
		assert.Equal(t, 0, m.Len())
	})

	t.Run("reads patterns", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultFileName)
		require.NoError(t, os.WriteFile(path, []byte("*.tmp\n*~\n\nbuild/\ndist/\nexample.md\ntest_*.md\n"), 0o644))

		m, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"*.tmp", "*~", "build/", "dist/", "example.md", "test_*.md"}, m.Patterns())
	})
}

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"no patterns", nil, "any/file.md", false},
		{"exact name", []string{"example.md"}, "example.md", true},
		{"exact name nested", []string{"example.md"}, "path/to/example.md", true},
		{"exact name other", []string{"example.md"}, "other.md", false},
		{"glob", []string{"*.tmp"}, "path/file.tmp", true},
		{"glob prefix", []string{"test_*.md"}, "path/test_example.md", true},
		{"hidden", []string{".*"}, ".hidden", true},
		{"hidden no match", []string{".*"}, "normal.md", false},
		{"dir rule", []string{"build/"}, "build/output.md", true},
		{"dir rule nested", []string{"build/"}, "project/build/file.md", true},
		{"dir rule deep", []string{"node_modules/"}, "node_modules/package/readme.md", true},
		{"dir rule not file", []string{"build/"}, "buildfile.md", false},
		{"dir rule other dir", []string{"build/"}, "src/file.md", false},
		{"backslash path", []string{"build/"}, `build\file.md`, true},
		{"backslash glob", []string{"*.tmp"}, `path\to\file.tmp`, true},
		{"anchored", []string{"/docs/*.md"}, "docs/a.md", true},
		{"anchored not nested", []string{"/docs/*.md"}, "x/docs/a.md", false},
		{"slash implies anchor", []string{"docs/a.md"}, "docs/a.md", true},
		{"double star", []string{"docs/**/draft.md"}, "docs/a/b/draft.md", true},
		{"double star zero dirs", []string{"docs/**/draft.md"}, "docs/draft.md", true},
		{"leading double star", []string{"**/draft.md"}, "x/y/draft.md", true},
		{"negation re-includes", []string{"*.md", "!keep.md"}, "keep.md", false},
		{"negation other", []string{"*.md", "!keep.md"}, "drop.md", true},
		{"last match wins", []string{"!keep.md", "*.md"}, "keep.md", true},
		{"escaped bang", []string{`\!bang.md`}, "!bang.md", true},
		{"escaped hash", []string{`\#notes.md`}, "#notes.md", true},
		{"single char wildcard", []string{"draft?.md"}, "docs/draft1.md", true},
		{"slash anchors to root", []string{"docs/a.md"}, "x/docs/a.md", false},
		{"nested dir rule", []string{"docs/drafts/"}, "docs/drafts/a.md", true},
		{"nested dir rule not file", []string{"docs/drafts/"}, "docs/drafts", false},
		{"trailing whitespace", []string{"*.tmp  "}, "a.tmp", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.patterns...).Match(tt.path))
		})
	}
}

func TestMatcher_Nil(t *testing.T) {
	var m *Matcher
	assert.False(t, m.Match("a.md"))
}
