package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the lockfile from the current documents",
	Long: `Parses and validates every document and writes the accepted requirements
to the lockfile. Fails if a lockfile already exists unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare the documents with the lockfile",
	Long: `Parses the documents and reports requirements added, removed or changed
since the lockfile was written. Validation errors are reported alongside
the differences.

Exits with status 2 when the lockfile is out of date.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Update the lockfile to match the documents",
	Long: `Validates the documents and rewrites the lockfile when the requirements
differ from it. An up to date lockfile is left untouched.`,
	Args: cobra.NoArgs,
	RunE: runLock,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing lockfile")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(lockCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	if requirementService == nil {
		return errors.New("requirement service not configured")
	}

	result, err := requirementService.Init(cmd.Context(), initForce)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return fmt.Errorf("%w (use --force to overwrite)", err)
	}
	if err != nil {
		return err
	}

	p := stylesFor(cmd.OutOrStdout())
	cmd.Printf("%s Wrote %s with %d requirements from %d documents\n",
		p.ok.Render("✓"), result.Lockfile, len(result.Requirements), len(result.Documents))
	return nil
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if requirementService == nil {
		return errors.New("requirement service not configured")
	}

	result, err := requirementService.Check(cmd.Context())
	if err != nil {
		return err
	}

	p := stylesFor(cmd.OutOrStdout())
	if result.UpToDate() {
		cmd.Printf("%s %s is up to date\n", p.ok.Render("✓"), result.Lockfile)
		return nil
	}

	if result.ValidationError != nil {
		cmd.Printf("%s %v\n", p.fail.Render("✗"), result.ValidationError)
	}
	if !result.Diff.IsEmpty() {
		cmd.Printf("%s differs from the documents:\n", result.Lockfile)
		printDiff(cmd, p, result.Diff)
		cmd.Println()
		cmd.Println("Run 'reqsnake lock' to accept the changes.")
	}
	return &exitError{code: ExitDrift, err: domain.ErrOutOfDate}
}

func runLock(cmd *cobra.Command, _ []string) error {
	if requirementService == nil {
		return errors.New("requirement service not configured")
	}

	result, err := requirementService.Lock(cmd.Context())
	if err != nil {
		return err
	}

	p := stylesFor(cmd.OutOrStdout())
	switch {
	case result.Created:
		cmd.Printf("%s Created %s with %d requirements\n", p.ok.Render("✓"), result.Lockfile, result.Requirements)
	case result.Written:
		cmd.Printf("%s Updated %s (%d requirements)\n", p.ok.Render("✓"), result.Lockfile, result.Requirements)
		printDiff(cmd, p, result.Diff)
	default:
		cmd.Printf("%s %s is already up to date\n", p.ok.Render("✓"), result.Lockfile)
	}
	return nil
}

func printDiff(cmd *cobra.Command, p palette, d domain.Diff) {
	for _, id := range d.Added {
		cmd.Printf("  %s %s\n", p.ok.Render("+"), id)
	}
	for _, id := range d.Removed {
		cmd.Printf("  %s %s\n", p.fail.Render("-"), id)
	}
	for _, id := range d.Changed {
		cmd.Printf("  %s %s\n", p.warn.Render("~"), id)
	}
}
