package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

var (
	listCritical  bool
	listCompleted bool
	listOpen      bool
	listSource    string
	listCategory  string
	listContains  string
	listJSON      bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and validate the documents",
	Long: `Parses every document and runs the validators: duplicate IDs, circular
child-of chains, completed requirements with open children and, when
enabled, child-of references to unknown requirements.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List requirements",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a requirement with its parents and children",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	listCmd.Flags().BoolVar(&listCritical, "critical", false, "only critical requirements")
	listCmd.Flags().BoolVar(&listCompleted, "completed", false, "only completed requirements")
	listCmd.Flags().BoolVar(&listOpen, "open", false, "only requirements not yet completed")
	listCmd.Flags().StringVar(&listSource, "source", "", "only requirements from this document")
	listCmd.Flags().StringVar(&listCategory, "category", "", "only requirements in this category (e.g. REQ-CORE)")
	listCmd.Flags().StringVarP(&listContains, "grep", "g", "", "only requirements whose ID or description contains text")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output requirements as JSON")
	listCmd.MarkFlagsMutuallyExclusive("completed", "open")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if requirementService == nil {
		return errors.New("requirement service not configured")
	}

	reqs, err := requirementService.Validate(cmd.Context())
	if err != nil {
		return err
	}

	p := stylesFor(cmd.OutOrStdout())
	summary := domain.Summarize(reqs)
	cmd.Printf("%s %d requirements are valid (%d completed, %d critical)\n",
		p.ok.Render("✓"), summary.Total, summary.Completed, summary.Critical)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	if requirementService == nil {
		return errors.New("requirement service not configured")
	}

	filter := domain.RequirementFilter{
		CriticalOnly: listCritical,
		Source:       listSource,
		Category:     listCategory,
		Contains:     listContains,
	}
	switch {
	case listCompleted:
		filter.Completed = boolPtr(true)
	case listOpen:
		filter.Completed = boolPtr(false)
	}

	reqs, err := requirementService.List(cmd.Context(), filter)
	if err != nil {
		return err
	}

	if listJSON {
		return outputListJSON(cmd, reqs)
	}
	return outputListTable(cmd, reqs)
}

// requirementJSON is the JSON form of a requirement in command output.
type requirementJSON struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Critical    bool     `json:"critical"`
	Completed   bool     `json:"completed"`
	Parents     []string `json:"parents"`
	Source      string   `json:"source"`
}

func toJSON(pr domain.ParsedRequirement) requirementJSON {
	parents := pr.Requirement.Parents()
	if parents == nil {
		parents = []string{}
	}
	return requirementJSON{
		ID:          pr.ID(),
		Description: pr.Requirement.Description(),
		Critical:    pr.Requirement.Critical(),
		Completed:   pr.Requirement.Completed(),
		Parents:     parents,
		Source:      pr.Source,
	}
}

func outputListJSON(cmd *cobra.Command, reqs []domain.ParsedRequirement) error {
	out := make([]requirementJSON, len(reqs))
	for i, pr := range reqs {
		out[i] = toJSON(pr)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal requirements: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputListTable(cmd *cobra.Command, reqs []domain.ParsedRequirement) error {
	if len(reqs) == 0 {
		cmd.Println("No requirements found.")
		return nil
	}

	p := stylesFor(cmd.OutOrStdout())
	width := 0
	for _, pr := range reqs {
		width = max(width, len(pr.ID()))
	}
	for _, pr := range reqs {
		req := pr.Requirement
		cmd.Printf("%s %-*s  %s  %s\n", p.marker(req.Completed(), req.Critical()),
			width, req.ID(), req.Description(), p.dim.Render(pr.Source))
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	if requirementService == nil {
		return errors.New("requirement service not configured")
	}

	detail, err := requirementService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	p := stylesFor(cmd.OutOrStdout())
	req := detail.Requirement.Requirement
	cmd.Println(p.strong.Render(req.ID()))
	cmd.Printf("  %s\n", req.Description())
	cmd.Println()
	cmd.Printf("  Critical:  %s\n", yesNo(req.Critical()))
	cmd.Printf("  Completed: %s\n", yesNo(req.Completed()))
	cmd.Printf("  Source:    %s\n", detail.Requirement.Source)

	if len(detail.Parents) > 0 || len(detail.MissingParents) > 0 {
		cmd.Println()
		cmd.Println("Parents:")
		for _, pr := range detail.Parents {
			cmd.Printf("  %s %s  %s\n", p.marker(pr.Requirement.Completed(), pr.Requirement.Critical()),
				pr.ID(), pr.Requirement.Description())
		}
		for _, id := range detail.MissingParents {
			cmd.Printf("  %s %s  %s\n", p.warn.Render("?   "), id, p.dim.Render("(not found)"))
		}
	}
	if len(detail.Children) > 0 {
		cmd.Println()
		cmd.Println("Children:")
		for _, pr := range detail.Children {
			cmd.Printf("  %s %s  %s\n", p.marker(pr.Requirement.Completed(), pr.Requirement.Critical()),
				pr.ID(), pr.Requirement.Description())
		}
	}
	if len(detail.Ancestors) > 0 {
		cmd.Println()
		cmd.Printf("Ancestors: %s\n", strings.Join(detail.Ancestors, " → "))
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func boolPtr(b bool) *bool {
	return &b
}
