package services

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reqsnake/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/logger"
)

type fixture struct {
	source    *memory.DocumentSource
	snapshots *memory.SnapshotStore
	history   *memory.HistoryStore
	service   *RequirementService
}

func newFixture(t *testing.T, docs ...domain.SourceDocument) *fixture {
	t.Helper()
	f := &fixture{
		source:    memory.NewDocumentSource(docs...),
		snapshots: memory.NewSnapshotStore(),
		history:   memory.NewHistoryStore(),
	}
	history := NewHistoryService(f.history)
	history.now = ticker()
	f.service = NewRequirementService(f.source, f.snapshots, history, nil)
	return f
}

// ticker returns a clock advancing one second per call.
func ticker() func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func (f *fixture) entries(t *testing.T) []domain.HistoryEntry {
	t.Helper()
	entries, err := f.history.List(context.Background(), 0)
	require.NoError(t, err)
	return entries
}

func ids(reqs []domain.ParsedRequirement) []string {
	out := make([]string, len(reqs))
	for i, pr := range reqs {
		out[i] = pr.ID()
	}
	return out
}

func TestRequirementService_Scan(t *testing.T) {
	f := newFixture(t, doc("core.md", coreDoc), doc("ui.md", uiDoc))

	result, err := f.service.Scan(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"core.md", "ui.md"}, result.Documents)
	assert.Equal(t, []string{"REQ-CORE-1", "REQ-CORE-2", "REQ-UI-1"}, ids(result.Requirements))
	assert.Equal(t, "ui.md", result.Requirements[2].Source)
}

func TestRequirementService_Scan_Errors(t *testing.T) {
	t.Run("source failure", func(t *testing.T) {
		service := NewRequirementService(&failingSource{err: domain.ErrAuthRequired},
			memory.NewSnapshotStore(), nil, nil)

		_, err := service.Scan(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAuthRequired)
	})

	t.Run("parse error names the document", func(t *testing.T) {
		f := newFixture(t, doc("bad.md", "> REQ-1\n> A.\n> priority: high\n"))

		_, err := f.service.Scan(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownAttribute)
		assert.Contains(t, err.Error(), "bad.md")
	})

	t.Run("lenient settings ignore unknown attributes", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.Parser.UnknownAttributes = domain.UnknownAttributeIgnore
		service := NewRequirementService(
			memory.NewDocumentSource(doc("bad.md", "> REQ-1\n> A.\n> priority: high\n")),
			memory.NewSnapshotStore(), nil, settings)

		result, err := service.Scan(context.Background())

		require.NoError(t, err)
		assert.Len(t, result.Requirements, 1)
	})
}

func TestRequirementService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		docs    []domain.SourceDocument
		missing bool
		wantErr error
	}{
		{
			name: "valid collection",
			docs: []domain.SourceDocument{doc("core.md", coreDoc), doc("ui.md", uiDoc)},
		},
		{
			name:    "duplicate across documents",
			docs:    []domain.SourceDocument{doc("a.md", coreDoc), doc("b.md", coreDoc)},
			wantErr: domain.ErrDuplicateRequirement,
		},
		{
			name: "cycle",
			docs: []domain.SourceDocument{doc("a.md",
				"> REQ-1\n> A.\n> child-of: REQ-2\n\n> REQ-2\n> B.\n> child-of: REQ-1\n")},
			wantErr: domain.ErrCircularDependency,
		},
		{
			name:    "completed parent with open child",
			docs:    []domain.SourceDocument{doc("a.md", "> REQ-1\n> A.\n> completed\n\n> REQ-2\n> B.\n> child-of: REQ-1\n")},
			wantErr: domain.ErrCompletionViolation,
		},
		{
			name: "missing parent allowed by default",
			docs: []domain.SourceDocument{doc("ui.md", uiDoc)},
		},
		{
			name:    "missing parent rejected when enabled",
			docs:    []domain.SourceDocument{doc("ui.md", uiDoc)},
			missing: true,
			wantErr: domain.ErrMissingParent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := domain.DefaultSettings()
			settings.Validation.MissingParents = tt.missing
			service := NewRequirementService(memory.NewDocumentSource(tt.docs...),
				memory.NewSnapshotStore(), nil, settings)

			reqs, err := service.Validate(context.Background())

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, reqs)
		})
	}
}

func TestRequirementService_Validate_VerboseLog(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	t.Cleanup(func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	})

	f := newFixture(t, doc("core.md", coreDoc))
	_, err := f.service.Validate(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "=== Scan ===")
	assert.Contains(t, out, "=== Validate ===")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("=== Scan ===")), bytes.Index(buf.Bytes(), []byte("=== Validate ===")))
	assert.Contains(t, out, "parsed 2 requirements")
}

func TestRequirementService_Init(t *testing.T) {
	f := newFixture(t, doc("core.md", coreDoc))
	ctx := context.Background()

	result, err := f.service.Init(ctx, false)

	require.NoError(t, err)
	assert.Equal(t, ":memory:", result.Lockfile)
	assert.Equal(t, []string{"core.md"}, result.Documents)
	assert.Len(t, result.Requirements, 2)
	assert.NotEmpty(t, result.Digest)

	lock, err := f.snapshots.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Digest, lock.Digest)

	entries := f.entries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.HistoryInit, entries[0].Action)
	assert.True(t, entries[0].Success)
	assert.Equal(t, 2, entries[0].Added)
	assert.NotEmpty(t, entries[0].ID)
}

func TestRequirementService_Init_Existing(t *testing.T) {
	f := newFixture(t, doc("core.md", coreDoc))
	ctx := context.Background()
	_, err := f.service.Init(ctx, false)
	require.NoError(t, err)

	_, err = f.service.Init(ctx, false)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Equal(t, 1, f.snapshots.Saves())

	_, err = f.service.Init(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, f.snapshots.Saves())
}

func TestRequirementService_Init_InvalidDocuments(t *testing.T) {
	f := newFixture(t, doc("a.md", coreDoc), doc("b.md", coreDoc))

	_, err := f.service.Init(context.Background(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateRequirement)
	assert.Equal(t, 0, f.snapshots.Saves())

	entries := f.entries(t)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.Contains(t, entries[0].Error, "REQ-CORE-1")
}

func TestRequirementService_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("no lockfile", func(t *testing.T) {
		f := newFixture(t, doc("core.md", coreDoc))

		_, err := f.service.Check(ctx)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("up to date", func(t *testing.T) {
		f := newFixture(t, doc("core.md", coreDoc))
		_, err := f.service.Init(ctx, false)
		require.NoError(t, err)

		result, err := f.service.Check(ctx)

		require.NoError(t, err)
		assert.True(t, result.UpToDate())
		entries := f.entries(t)
		require.Len(t, entries, 2)
		assert.True(t, entries[0].Success)
	})

	t.Run("drift", func(t *testing.T) {
		f := newFixture(t, doc("core.md", coreDoc))
		_, err := f.service.Init(ctx, false)
		require.NoError(t, err)

		f.source.Put(doc("core.md", "> REQ-CORE-1\n> The tool parses requirements.\n\n> REQ-CORE-3\n> New.\n"))
		result, err := f.service.Check(ctx)

		require.NoError(t, err)
		assert.False(t, result.UpToDate())
		assert.NoError(t, result.ValidationError)
		assert.Equal(t, []string{"REQ-CORE-3"}, result.Diff.Added)
		assert.Equal(t, []string{"REQ-CORE-2"}, result.Diff.Removed)
		assert.Equal(t, []string{"REQ-CORE-1"}, result.Diff.Changed)
	})

	t.Run("diff reported alongside validation failure", func(t *testing.T) {
		f := newFixture(t, doc("core.md", coreDoc))
		_, err := f.service.Init(ctx, false)
		require.NoError(t, err)

		f.source.Put(doc("cycle.md", "> REQ-X-1\n> A.\n> child-of: REQ-X-2\n\n> REQ-X-2\n> B.\n> child-of: REQ-X-1\n"))
		result, err := f.service.Check(ctx)

		require.NoError(t, err)
		assert.ErrorIs(t, result.ValidationError, domain.ErrCircularDependency)
		assert.Equal(t, []string{"REQ-X-1", "REQ-X-2"}, result.Diff.Added)
		assert.False(t, result.UpToDate())
		entries := f.entries(t)
		assert.False(t, entries[0].Success)
		assert.Equal(t, 2, entries[0].Added)
	})

	t.Run("parse error", func(t *testing.T) {
		f := newFixture(t, doc("core.md", coreDoc))
		_, err := f.service.Init(ctx, false)
		require.NoError(t, err)

		f.source.Put(doc("bad.md", "> REQ1\n> A.\n"))
		_, err = f.service.Check(ctx)

		assert.ErrorIs(t, err, domain.ErrParse)
	})
}

func TestRequirementService_Lock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, doc("core.md", coreDoc))

	first, err := f.service.Lock(ctx)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.True(t, first.Written)
	assert.Equal(t, []string{"REQ-CORE-1", "REQ-CORE-2"}, first.Diff.Added)

	second, err := f.service.Lock(ctx)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.False(t, second.Written)
	assert.True(t, second.Diff.IsEmpty())
	assert.Equal(t, 1, f.snapshots.Saves())

	f.source.Put(doc("ui.md", uiDoc))
	third, err := f.service.Lock(ctx)
	require.NoError(t, err)
	assert.True(t, third.Written)
	assert.Equal(t, []string{"REQ-UI-1"}, third.Diff.Added)
	assert.Equal(t, 3, third.Requirements)
	assert.NotEqual(t, first.Digest, third.Digest)

	assert.Len(t, f.entries(t), 3)
}

func TestRequirementService_Lock_Invalid(t *testing.T) {
	f := newFixture(t, doc("a.md", "> REQ-1\n> A.\n> completed\n\n> REQ-2\n> B.\n> child-of: REQ-1\n"))

	_, err := f.service.Lock(context.Background())

	assert.ErrorIs(t, err, domain.ErrCompletionViolation)
	assert.Equal(t, 0, f.snapshots.Saves())
}

func TestRequirementService_Get(t *testing.T) {
	f := newFixture(t, doc("core.md", coreDoc), doc("ui.md", uiDoc),
		doc("extra.md", "> REQ-EXTRA-1\n> Extra.\n> child-of: REQ-CORE-2\n> child-of: REQ-GONE-1\n"))
	ctx := context.Background()

	detail, err := f.service.Get(ctx, "REQ-CORE-2")
	require.NoError(t, err)
	assert.Equal(t, "core.md", detail.Requirement.Source)
	assert.Equal(t, []string{"REQ-CORE-1"}, ids(detail.Parents))
	assert.Equal(t, []string{"REQ-UI-1", "REQ-EXTRA-1"}, ids(detail.Children))
	assert.Equal(t, []string{"REQ-CORE-1"}, detail.Ancestors)

	detail, err = f.service.Get(ctx, "REQ-EXTRA-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"REQ-GONE-1"}, detail.MissingParents)

	_, err = f.service.Get(ctx, "REQ-NOPE-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRequirementService_List(t *testing.T) {
	f := newFixture(t, doc("core.md", coreDoc), doc("ui.md", uiDoc))
	done := true

	tests := []struct {
		name   string
		filter domain.RequirementFilter
		want   []string
	}{
		{"all", domain.RequirementFilter{}, []string{"REQ-CORE-1", "REQ-CORE-2", "REQ-UI-1"}},
		{"critical", domain.RequirementFilter{CriticalOnly: true}, []string{"REQ-CORE-1"}},
		{"completed", domain.RequirementFilter{Completed: &done}, []string{"REQ-UI-1"}},
		{"source", domain.RequirementFilter{Source: "core.md"}, []string{"REQ-CORE-1", "REQ-CORE-2"}},
		{"contains", domain.RequirementFilter{Contains: "VALIDATED"}, []string{"REQ-CORE-2"}},
		{"no match", domain.RequirementFilter{Category: "REQ-API"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs, err := f.service.List(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(reqs))
		})
	}
}

func TestRequirementService_HistoryFailureIsNotFatal(t *testing.T) {
	service := NewRequirementService(memory.NewDocumentSource(doc("core.md", coreDoc)),
		memory.NewSnapshotStore(), NewHistoryService(failingHistory{}), nil)

	_, err := service.Lock(context.Background())

	assert.NoError(t, err)
}
