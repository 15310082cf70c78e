package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRequirementID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid requirement URI", uri: "reqsnake://requirements/REQ-CORE-1", expected: "REQ-CORE-1"},
		{name: "invalid prefix", uri: "file://requirements/REQ-CORE-1", expected: ""},
		{name: "nested path", uri: "reqsnake://requirements/REQ-1/children", expected: ""},
		{name: "list URI", uri: "reqsnake://requirements", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractRequirementID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleRequirementsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns requirements as JSON", func(t *testing.T) {
		server := newTestServer(t, &mockRequirementService{reqs: sampleRequirements()})

		res, err := server.handleRequirementsResource(ctx, makeReadResourceRequest("reqsnake://requirements"))

		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, "application/json", res.Contents[0].MIMEType)

		var got []RequirementOutput
		require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "REQ-CORE-1", got[0].ID)
		assert.Equal(t, "docs/ui.md", got[1].Source)
	})

	t.Run("validation failure", func(t *testing.T) {
		server := newTestServer(t, &mockRequirementService{err: errors.New("cycle")})

		_, err := server.handleRequirementsResource(ctx, makeReadResourceRequest("reqsnake://requirements"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cycle")
	})
}

func TestServer_handleRequirementResource(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &mockRequirementService{reqs: sampleRequirements()})

	t.Run("found", func(t *testing.T) {
		uri := "reqsnake://requirements/REQ-UI-1"
		res, err := server.handleRequirementResource(ctx, makeReadResourceRequest(uri))

		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, uri, res.Contents[0].URI)

		var got GetOutput
		require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &got))
		assert.Equal(t, "REQ-UI-1", got.Requirement.ID)
		assert.True(t, got.Requirement.Completed)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := server.handleRequirementResource(ctx, makeReadResourceRequest("reqsnake://requirements/REQ-NOPE"))

		require.Error(t, err)
	})

	t.Run("malformed URI", func(t *testing.T) {
		_, err := server.handleRequirementResource(ctx, makeReadResourceRequest("reqsnake://requirements/"))

		require.Error(t, err)
	})
}

func TestServer_handleStatusResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns markdown report", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Requirements: &mockRequirementService{},
			Status:       &mockStatusService{report: []byte("# Status\n\n1/2 completed\n")},
		})
		require.NoError(t, err)

		res, err := server.handleStatusResource(ctx, makeReadResourceRequest("reqsnake://status"))

		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, "text/markdown", res.Contents[0].MIMEType)
		assert.Contains(t, res.Contents[0].Text, "1/2 completed")
	})

	t.Run("missing lockfile", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Requirements: &mockRequirementService{},
			Status:       &mockStatusService{err: errors.New("no lockfile")},
		})
		require.NoError(t, err)

		_, err = server.handleStatusResource(ctx, makeReadResourceRequest("reqsnake://status"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no lockfile")
	})
}
