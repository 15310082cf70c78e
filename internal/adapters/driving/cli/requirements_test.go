package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

func TestValidateCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "validate")

	require.NoError(t, err)
	assert.Contains(t, out, "3 requirements are valid (1 completed, 1 critical)")
}

func TestValidateCmd_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "cycle",
			content: "> REQ-A-1\n> A.\n> child-of: REQ-A-2\n\n> REQ-A-2\n> B.\n> child-of: REQ-A-1\n",
			wantErr: domain.ErrCircularDependency,
		},
		{
			name:    "completed parent with open child",
			content: "> REQ-A-1\n> A.\n> completed\n\n> REQ-A-2\n> B.\n> child-of: REQ-A-1\n",
			wantErr: domain.ErrCompletionViolation,
		},
		{
			name:    "unknown attribute",
			content: "> REQ-A-1\n> A.\n> priority: high\n",
			wantErr: domain.ErrUnknownAttribute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestServices(t)
			env.source.Put(domain.SourceDocument{Source: "bad.md", Content: tt.content})

			_, err := execute(t, "validate")

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestListCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
		not  []string
	}{
		{name: "all", want: []string{"REQ-CORE-1", "REQ-CORE-2", "REQ-UI-1"}},
		{name: "critical", args: []string{"--critical"}, want: []string{"REQ-CORE-1"}, not: []string{"REQ-CORE-2", "REQ-UI-1"}},
		{name: "completed", args: []string{"--completed"}, want: []string{"REQ-UI-1"}, not: []string{"REQ-CORE-1"}},
		{name: "open", args: []string{"--open"}, want: []string{"REQ-CORE-1", "REQ-CORE-2"}, not: []string{"REQ-UI-1"}},
		{name: "source", args: []string{"--source", "ui.md"}, want: []string{"REQ-UI-1"}, not: []string{"REQ-CORE-2"}},
		{name: "category", args: []string{"--category", "REQ-CORE"}, want: []string{"REQ-CORE-2"}, not: []string{"REQ-UI-1"}},
		{name: "grep", args: []string{"-g", "validated"}, want: []string{"REQ-CORE-2"}, not: []string{"REQ-CORE-1", "REQ-UI-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t)

			out, err := execute(t, append([]string{"list"}, tt.args...)...)

			require.NoError(t, err)
			for _, id := range tt.want {
				assert.Contains(t, out, id)
			}
			for _, id := range tt.not {
				assert.NotContains(t, out, id)
			}
		})
	}
}

func TestListCmd_Markers(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "[ ]! REQ-CORE-1")
	assert.Contains(t, out, "[x]  REQ-UI-1")
}

func TestListCmd_NoMatches(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "list", "--grep", "nothing like this")

	require.NoError(t, err)
	assert.Contains(t, out, "No requirements found.")
}

func TestListCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "list", "--json")
	require.NoError(t, err)

	var got []requirementJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "REQ-CORE-1", got[0].ID)
	assert.True(t, got[0].Critical)
	assert.Equal(t, []string{}, got[0].Parents)
	assert.Equal(t, []string{"REQ-CORE-2"}, got[2].Parents)
	assert.Equal(t, "ui.md", got[2].Source)
}

func TestListCmd_CompletedAndOpenConflict(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "list", "--completed", "--open")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}

func TestShowCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "show", "REQ-CORE-2")

	require.NoError(t, err)
	assert.Contains(t, out, "Parsed requirements are validated.")
	assert.Contains(t, out, "Critical:  no")
	assert.Contains(t, out, "Source:    core.md")
	assert.Contains(t, out, "Parents:")
	assert.Contains(t, out, "REQ-CORE-1  The tool parses requirements.")
	assert.Contains(t, out, "Children:")
	assert.Contains(t, out, "REQ-UI-1")
	assert.Contains(t, out, "Ancestors: REQ-CORE-1")
}

func TestShowCmd_MissingParent(t *testing.T) {
	env := setupTestServices(t)
	env.source.Put(domain.SourceDocument{Source: "orphan.md", Content: "> REQ-ORPHAN-1\n> Lost.\n> child-of: REQ-GONE-1\n"})

	out, err := execute(t, "show", "REQ-ORPHAN-1")

	require.NoError(t, err)
	assert.Contains(t, out, "REQ-GONE-1")
	assert.Contains(t, out, "(not found)")
}

func TestShowCmd_Unknown(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "show", "REQ-NOPE-1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShowCmd_RequiresOneArg(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestYesNo(t *testing.T) {
	assert.Equal(t, "yes", yesNo(true))
	assert.Equal(t, "no", yesNo(false))
}
