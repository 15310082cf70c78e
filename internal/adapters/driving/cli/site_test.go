package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteCmd_DefaultOutput(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "site")

	require.NoError(t, err)
	dir := filepath.Join(env.dir, "site", "reqsnake")
	assert.Contains(t, out, "Wrote 4 pages to "+dir)

	pages := env.writer.Pages(dir)
	require.Len(t, pages, 4)
	assert.Equal(t, "index.md", pages[0].Path)
	assert.Contains(t, string(pages[0].Content), "REQ-CORE-1")
}

func TestSiteCmd_OutputFlag(t *testing.T) {
	env := setupTestServices(t)

	_, err := execute(t, "site", "-o", "public")

	require.NoError(t, err)
	assert.Len(t, env.writer.Pages(filepath.Join(env.dir, "public")), 4)
}

func TestSiteCmd_HTML(t *testing.T) {
	env := setupTestServices(t)

	_, err := execute(t, "site", "--html", "-o", "public")

	require.NoError(t, err)
	pages := env.writer.Pages(filepath.Join(env.dir, "public"))
	require.Len(t, pages, 4)
	for _, p := range pages {
		assert.True(t, strings.HasSuffix(p.Path, ".html"), p.Path)
	}
}

func TestSiteCmd_HTMLFromSettings(t *testing.T) {
	env := setupTestServices(t)
	_, err := execute(t, "config", "set", "site.html", "true")
	require.NoError(t, err)

	_, err = execute(t, "site", "-o", "public")

	require.NoError(t, err)
	pages := env.writer.Pages(filepath.Join(env.dir, "public"))
	require.NotEmpty(t, pages)
	assert.Equal(t, "index.html", pages[0].Path)
}

func TestGraphCmd_Stdout(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "graph")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph requirements {"))
	assert.Contains(t, out, `"REQ-CORE-1" -> "REQ-CORE-2"`)
}

func TestGraphCmd_File(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "graph", "-o", "reqs.dot")

	require.NoError(t, err)
	path := filepath.Join(env.dir, "reqs.dot")
	assert.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph requirements")
}

func TestResolvePath(t *testing.T) {
	old := projectDir
	t.Cleanup(func() { projectDir = old })

	projectDir = ""
	assert.Equal(t, "out", resolvePath("out"))

	projectDir = filepath.FromSlash("/work/project")
	assert.Equal(t, filepath.FromSlash("/work/project/out"), resolvePath("out"))
	abs := filepath.FromSlash("/elsewhere/out")
	assert.Equal(t, abs, resolvePath(abs))
}

func TestSourceRoot(t *testing.T) {
	old := projectDir
	t.Cleanup(func() { projectDir = old })

	projectDir = ""
	assert.Equal(t, "", sourceRoot("/any"))

	projectDir = t.TempDir()
	assert.Equal(t, "../..", sourceRoot(filepath.Join(projectDir, "site", "reqsnake")))
	assert.Equal(t, ".", sourceRoot(projectDir))
}
