package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent init, lock and check runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the recorded history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries (0 for all)")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history is disabled (set history.enabled = true)")
	}

	entries, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		cmd.Println("No history recorded.")
		return nil
	}

	p := stylesFor(cmd.OutOrStdout())
	for _, e := range entries {
		mark := p.ok.Render("✓")
		if !e.Success {
			mark = p.fail.Render("✗")
		}
		cmd.Printf("%s %s  %-5s  %3d reqs  +%d -%d ~%d",
			mark, e.RecordedAt.Local().Format("2006-01-02 15:04:05"), e.Action,
			e.Requirements, e.Added, e.Removed, e.Changed)
		if e.Error != "" {
			cmd.Printf("  %s", p.dim.Render(firstLine(e.Error)))
		}
		cmd.Println()
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history is disabled (set history.enabled = true)")
	}
	if err := historyService.Clear(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("History cleared.")
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
