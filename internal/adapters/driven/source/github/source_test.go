package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
)

type fakeFile struct {
	path    string
	content string
	size    int
}

// fakeGitHub serves the repository, tree and blob endpoints for one repo.
func fakeGitHub(t *testing.T, files []fakeFile) *httptest.Server {
	t.Helper()
	return fakeGitHubTree(t, files, false)
}

func fakeGitHubTree(t *testing.T, files []fakeFile, truncated bool) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/specs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"name": "specs", "default_branch": "main"})
	})
	mux.HandleFunc("/repos/acme/specs/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("recursive"))
		entries := []map[string]any{{"path": "docs", "type": "tree", "sha": "d0"}}
		for i, f := range files {
			size := f.size
			if size == 0 {
				size = len(f.content)
			}
			entries = append(entries, map[string]any{
				"path": f.path, "type": "blob", "sha": "b" + strconv.Itoa(i), "size": size,
			})
		}
		writeJSON(w, map[string]any{"sha": "tree-sha", "tree": entries, "truncated": truncated})
	})
	mux.HandleFunc("/repos/acme/specs/git/blobs/", func(w http.ResponseWriter, r *http.Request) {
		sha := r.URL.Path[len("/repos/acme/specs/git/blobs/"):]
		i, err := strconv.Atoi(sha[1:])
		if err != nil || i >= len(files) {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, map[string]any{
			"sha":      sha,
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte(files[i].content)),
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(HeaderRateRemaining, "4999")
	w.Header().Set(HeaderRateLimit, "5000")
	_ = json.NewEncoder(w).Encode(v)
}

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return NewClientWithHTTPClient(srv.Client(),
		WithBaseURL(u),
		WithRateLimiter(NewRateLimiterWithRate(rate.Inf, 1)),
	)
}

func collect(t *testing.T, src *Source) ([]domain.SourceDocument, error) {
	t.Helper()
	docs, errs := src.Documents(context.Background())
	var out []domain.SourceDocument
	for d := range docs {
		out = append(out, d)
	}
	return out, <-errs
}

func TestParseRepository(t *testing.T) {
	tests := []struct {
		in      string
		want    Repository
		wantErr bool
	}{
		{in: "acme/specs", want: Repository{Owner: "acme", Name: "specs"}},
		{in: "acme/specs@v1.2", want: Repository{Owner: "acme", Name: "specs", Ref: "v1.2"}},
		{in: "https://github.com/acme/specs.git", want: Repository{Owner: "acme", Name: "specs"}},
		{in: "github.com/acme/specs/", want: Repository{Owner: "acme", Name: "specs"}},
		{in: "acme", wantErr: true},
		{in: "/specs", wantErr: true},
		{in: "acme/specs@", wantErr: true},
		{in: "acme/specs/extra", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRepository(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRepository)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepository_Strings(t *testing.T) {
	repo := Repository{Owner: "acme", Name: "specs", Ref: "main"}
	assert.Equal(t, "acme/specs@main", repo.String())
	assert.Equal(t, "github://acme/specs/docs/a.md", repo.DocumentURI("docs/a.md"))
	assert.Equal(t, "https://github.com/acme/specs/blob/main/docs/a.md", repo.HTMLURL("main", "docs/a.md"))
	assert.Equal(t, "acme/specs", Repository{Owner: "acme", Name: "specs"}.String())
}

func TestSource_Basics(t *testing.T) {
	src := New(NewClientWithToken(context.Background(), ""), Config{
		Repository: Repository{Owner: "acme", Name: "specs"},
	})
	var _ driven.DocumentSource = src

	assert.Equal(t, "github", src.Type())
	assert.Equal(t, "acme/specs", src.Root())
	assert.True(t, src.Capabilities().SupportsRateLimiting)
	assert.False(t, src.Capabilities().SupportsWatch)

	_, err := src.Watch(context.Background())
	assert.ErrorIs(t, err, ErrWatchUnsupported)
}

func TestSource_Documents(t *testing.T) {
	files := []fakeFile{
		{path: "z.md", content: "> Z-1\n> last\n"},
		{path: "docs/a.md", content: "> A-1\n> first\n"},
		{path: "docs/draft.md", content: "> D-1\n> draft\n"},
		{path: "main.go", content: "package main"},
		{path: ".github/notes.md", content: "hidden"},
		{path: "huge.pdf", content: "x", size: MaxFileSize + 1},
		{path: ".requirementsignore", content: "draft.md\n"},
	}
	srv := fakeGitHub(t, files)

	src := New(testClient(t, srv), Config{
		Repository: Repository{Owner: "acme", Name: "specs"},
		IgnoreFile: ".requirementsignore",
	})

	docs, err := collect(t, src)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "github://acme/specs/docs/a.md", docs[0].Source)
	assert.Equal(t, "> A-1\n> first\n", docs[0].Content)
	assert.Equal(t, "main", docs[0].Metadata["ref"])
	assert.Equal(t, "https://github.com/acme/specs/blob/main/docs/a.md", docs[0].Metadata["html_url"])
	assert.Equal(t, "github://acme/specs/z.md", docs[1].Source)
}

func TestSource_Documents_IncompleteListing(t *testing.T) {
	tests := []struct {
		name      string
		files     []fakeFile
		truncated bool
		wantErr   error
	}{
		{
			name:      "truncated tree",
			files:     []fakeFile{{path: "a.md", content: "> A-1\n> a\n"}},
			truncated: true,
			wantErr:   ErrTreeTruncated,
		},
		{
			name: "oversized document",
			files: []fakeFile{
				{path: "a.md", content: "> A-1\n> a\n"},
				{path: "docs/huge.md", content: "x", size: MaxFileSize + 1},
			},
			wantErr: ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeGitHubTree(t, tt.files, tt.truncated)
			src := New(testClient(t, srv), Config{Repository: Repository{Owner: "acme", Name: "specs"}})

			docs, err := collect(t, src)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, docs)
		})
	}
}

func TestSource_Documents_IgnoredOversizedDocument(t *testing.T) {
	srv := fakeGitHub(t, []fakeFile{
		{path: "a.md", content: "> A-1\n> a\n"},
		{path: "archive/huge.md", content: "x", size: MaxFileSize + 1},
		{path: ".requirementsignore", content: "archive/\n"},
	})
	src := New(testClient(t, srv), Config{
		Repository: Repository{Owner: "acme", Name: "specs"},
		IgnoreFile: ".requirementsignore",
	})

	docs, err := collect(t, src)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "github://acme/specs/a.md", docs[0].Source)
}

func TestSource_Documents_ExplicitRef(t *testing.T) {
	srv := fakeGitHub(t, []fakeFile{{path: "a.md", content: "a"}})
	src := New(testClient(t, srv), Config{
		Repository: Repository{Owner: "acme", Name: "specs", Ref: "main"},
	})

	docs, err := collect(t, src)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].Content)
}

func TestSource_Documents_NotFound(t *testing.T) {
	srv := fakeGitHub(t, nil)
	src := New(testClient(t, srv), Config{
		Repository: Repository{Owner: "acme", Name: "missing"},
	})

	_, err := collect(t, src)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSource_Documents_Closed(t *testing.T) {
	srv := fakeGitHub(t, nil)
	src := New(testClient(t, srv), Config{Repository: Repository{Owner: "acme", Name: "specs"}})
	require.NoError(t, src.Close())

	_, err := collect(t, src)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSource_Validate(t *testing.T) {
	srv := fakeGitHub(t, nil)
	client := testClient(t, srv)

	ok := New(client, Config{Repository: Repository{Owner: "acme", Name: "specs"}})
	assert.NoError(t, ok.Validate(context.Background()))
	assert.Equal(t, 4999, client.RateLimiter().Remaining())

	missing := New(client, Config{Repository: Repository{Owner: "acme", Name: "gone"}})
	assert.ErrorIs(t, missing.Validate(context.Background()), domain.ErrNotFound)
}

func TestSource_Validate_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer srv.Close()

	src := New(testClient(t, srv), Config{Repository: Repository{Owner: "acme", Name: "specs"}})
	err := src.Validate(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.True(t, IsUnauthorized(err))
}

func TestRateLimiter(t *testing.T) {
	t.Run("tracks headers", func(t *testing.T) {
		rl := NewRateLimiterWithRate(rate.Inf, 1)
		assert.Equal(t, -1, rl.Remaining())

		reset := time.Now().Add(time.Hour).Unix()
		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set(HeaderRateRemaining, "42")
		resp.Header.Set(HeaderRateLimit, "60")
		resp.Header.Set(HeaderRateReset, strconv.FormatInt(reset, 10))
		rl.UpdateFromResponse(resp)

		assert.Equal(t, 42, rl.Remaining())
		assert.Equal(t, 60, rl.Limit())
		assert.Equal(t, reset, rl.ResetTime().Unix())
	})

	t.Run("waits for reset when exhausted", func(t *testing.T) {
		rl := NewRateLimiterWithRate(rate.Inf, 1)
		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set(HeaderRateRemaining, "0")
		resp.Header.Set(HeaderRateReset, strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))
		rl.UpdateFromResponse(resp)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, rl.Wait(ctx), context.DeadlineExceeded)
	})

	t.Run("nil response", func(t *testing.T) {
		rl := NewRateLimiter()
		rl.UpdateFromResponse(nil)
		assert.Equal(t, -1, rl.Remaining())
	})
}

func TestErrors(t *testing.T) {
	notFound := &APIError{StatusCode: http.StatusNotFound, Message: "Not Found", URL: "u"}
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsUnauthorized(notFound))
	assert.Equal(t, "github: API error 404: Not Found (URL: u)", notFound.Error())

	limited := &RateLimitError{ResetAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	assert.True(t, IsRateLimited(limited))
	assert.Contains(t, limited.Error(), "2026-01-02T03:04:05Z")

	assert.ErrorIs(t, mapError(limited, Repository{}), domain.ErrRateLimited)
	assert.NoError(t, mapError(nil, Repository{}))
}
