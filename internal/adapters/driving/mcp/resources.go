package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

const uriScheme = "reqsnake://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "requirements",
		Name:        "requirements",
		Description: "Every validated requirement of the project",
		MIMEType:    "application/json",
	}, s.handleRequirementsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "requirements/{id}",
		Name:        "requirement",
		Description: "One requirement with its parents and children",
		MIMEType:    "application/json",
	}, s.handleRequirementResource)

	if s.ports.Status != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "status",
			Name:        "status",
			Description: "Completion report of the locked requirements",
			MIMEType:    "text/markdown",
		}, s.handleStatusResource)
	}
}

func (s *Server) handleRequirementsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	reqs, err := s.ports.Requirements.Validate(ctx)
	if err != nil {
		return nil, fmt.Errorf("validating requirements: %w", err)
	}
	return jsonResult(req.Params.URI, toOutputs(reqs))
}

func (s *Server) handleRequirementResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractRequirementID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	d, err := s.ports.Requirements.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting requirement: %w", err)
	}

	return jsonResult(req.Params.URI, GetOutput{
		Requirement:    toOutput(d.Requirement),
		Parents:        toOutputs(d.Parents),
		MissingParents: d.MissingParents,
		Children:       toOutputs(d.Children),
		Ancestors:      d.Ancestors,
	})
}

func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	report, err := s.ports.Status.Report(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporting status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     string(report),
		}},
	}, nil
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRequirementID extracts the ID from a URI like reqsnake://requirements/{id}.
func extractRequirementID(uri string) string {
	const prefix = uriScheme + "requirements/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
