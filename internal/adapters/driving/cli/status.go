package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var statusMarkdown bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show completion of the locked requirements",
	Long: `Summarises the requirements in the lockfile: how many are completed,
how many critical requirements are done, and progress per document.

Use --markdown to print the full report with the requirement hierarchy.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusMarkdown, "markdown", false, "print the report as markdown")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if statusService == nil {
		return errors.New("status service not configured")
	}

	if statusMarkdown {
		report, err := statusService.Report(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Print(string(report))
		return nil
	}

	status, err := statusService.Status(cmd.Context())
	if err != nil {
		return err
	}

	p := stylesFor(cmd.OutOrStdout())
	cmd.Println(p.strong.Render("Requirements status"))
	cmd.Println()
	cmd.Printf("  Completed: %d/%d (%.1f%%)\n", status.Completed, status.Total, status.CompletionPercent())
	cmd.Printf("  Critical:  %d/%d (%.1f%%)\n",
		status.CriticalCompleted, status.Critical, status.CriticalCompletionPercent())

	if len(status.Groups) > 0 {
		cmd.Println()
		cmd.Println("By document:")
		for _, g := range status.Groups {
			cmd.Printf("  %-40s %d/%d\n", g.Source, g.Completed, len(g.Requirements))
		}
	}

	var open []string
	for _, pr := range status.Requirements {
		if pr.Requirement.Critical() && !pr.Requirement.Completed() {
			open = append(open, pr.ID())
		}
	}
	if len(open) > 0 {
		cmd.Println()
		cmd.Println(p.warn.Render("Open critical requirements:"))
		for _, id := range open {
			cmd.Printf("  %s\n", id)
		}
	}
	return nil
}
