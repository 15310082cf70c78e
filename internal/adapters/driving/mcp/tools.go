package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// RequirementOutput is one requirement as returned by the tools.
type RequirementOutput struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Critical    bool     `json:"critical"`
	Completed   bool     `json:"completed"`
	Parents     []string `json:"parents,omitempty"`
	Source      string   `json:"source,omitempty"`
}

// ValidateInput is the input schema for the validate tool.
type ValidateInput struct{}

// ValidateOutput is the output schema for the validate tool.
type ValidateOutput struct {
	Valid bool   `json:"valid"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// ListInput is the input schema for the list_requirements tool.
type ListInput struct {
	Critical  bool   `json:"critical,omitempty" jsonschema:"only return critical requirements"`
	Completed *bool  `json:"completed,omitempty" jsonschema:"only return requirements with this completion state"`
	Source    string `json:"source,omitempty" jsonschema:"only return requirements parsed from this document"`
	Category  string `json:"category,omitempty" jsonschema:"only return requirements in this category, e.g. REQ-CORE"`
	Contains  string `json:"contains,omitempty" jsonschema:"case-insensitive text to find in the ID or description"`
}

// ListOutput is the output schema for the list_requirements tool.
type ListOutput struct {
	Requirements []RequirementOutput `json:"requirements"`
	Count        int                 `json:"count"`
}

// GetInput is the input schema for the get_requirement tool.
type GetInput struct {
	ID string `json:"id" jsonschema:"the requirement ID, e.g. REQ-CORE-1"`
}

// GetOutput is the output schema for the get_requirement tool.
type GetOutput struct {
	Requirement    RequirementOutput   `json:"requirement"`
	Parents        []RequirementOutput `json:"parents,omitempty"`
	MissingParents []string            `json:"missing_parents,omitempty"`
	Children       []RequirementOutput `json:"children,omitempty"`
	Ancestors      []string            `json:"ancestors,omitempty"`
}

// CheckInput is the input schema for the check_lockfile tool.
type CheckInput struct{}

// CheckOutput is the output schema for the check_lockfile tool.
type CheckOutput struct {
	UpToDate        bool     `json:"up_to_date"`
	Lockfile        string   `json:"lockfile"`
	Added           []string `json:"added,omitempty"`
	Removed         []string `json:"removed,omitempty"`
	Changed         []string `json:"changed,omitempty"`
	ValidationError string   `json:"validation_error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate",
		Description: "Parse the project documents and run every requirement validator",
	}, s.handleValidate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_requirements",
		Description: "List validated requirements, optionally filtered",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_requirement",
		Description: "Show one requirement with its parents, children and ancestors",
	}, s.handleGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_lockfile",
		Description: "Compare the lockfile with the current documents",
	}, s.handleCheck)
}

// handleValidate reports validation failures in the output rather than as
// tool errors so the assistant can read them.
func (s *Server) handleValidate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ValidateInput,
) (*mcp.CallToolResult, ValidateOutput, error) {
	reqs, err := s.ports.Requirements.Validate(ctx)
	if err != nil {
		if derr, ok := domain.AsError(err); ok {
			return nil, ValidateOutput{Error: err.Error(), Kind: derr.Kind.String()}, nil
		}
		return nil, ValidateOutput{}, err
	}
	return nil, ValidateOutput{Valid: true, Count: len(reqs)}, nil
}

func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	reqs, err := s.ports.Requirements.List(ctx, domain.RequirementFilter{
		CriticalOnly: input.Critical,
		Completed:    input.Completed,
		Source:       input.Source,
		Category:     input.Category,
		Contains:     input.Contains,
	})
	if err != nil {
		return nil, ListOutput{}, err
	}

	return nil, ListOutput{Requirements: toOutputs(reqs), Count: len(reqs)}, nil
}

func (s *Server) handleGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetInput,
) (*mcp.CallToolResult, GetOutput, error) {
	if input.ID == "" {
		return nil, GetOutput{}, errors.New("id is required")
	}

	d, err := s.ports.Requirements.Get(ctx, input.ID)
	if err != nil {
		return nil, GetOutput{}, err
	}

	return nil, GetOutput{
		Requirement:    toOutput(d.Requirement),
		Parents:        toOutputs(d.Parents),
		MissingParents: d.MissingParents,
		Children:       toOutputs(d.Children),
		Ancestors:      d.Ancestors,
	}, nil
}

func (s *Server) handleCheck(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CheckInput,
) (*mcp.CallToolResult, CheckOutput, error) {
	res, err := s.ports.Requirements.Check(ctx)
	if err != nil {
		return nil, CheckOutput{}, err
	}

	out := CheckOutput{
		UpToDate: res.UpToDate(),
		Lockfile: res.Lockfile,
		Added:    res.Diff.Added,
		Removed:  res.Diff.Removed,
		Changed:  res.Diff.Changed,
	}
	if res.ValidationError != nil {
		out.ValidationError = res.ValidationError.Error()
	}
	return nil, out, nil
}

func toOutput(pr domain.ParsedRequirement) RequirementOutput {
	req := pr.Requirement
	return RequirementOutput{
		ID:          req.ID(),
		Description: req.Description(),
		Critical:    req.Critical(),
		Completed:   req.Completed(),
		Parents:     req.Parents(),
		Source:      pr.Source,
	}
}

func toOutputs(prs []domain.ParsedRequirement) []RequirementOutput {
	out := make([]RequirementOutput, len(prs))
	for i, pr := range prs {
		out[i] = toOutput(pr)
	}
	return out
}
