package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/fsutil"
)

var (
	siteOutput string
	siteHTML   bool
	graphOut   string
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Generate a page per requirement",
	Long: `Validates the documents and writes one page per requirement plus an
index grouped by category. Pages show the parents, children and the
ancestor hierarchy of each requirement as mermaid diagrams.

Pages are markdown by default; --html converts them to HTML. Pages written
by an earlier run that no longer correspond to a requirement are removed.`,
	Args: cobra.NoArgs,
	RunE: runSite,
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the requirement hierarchy in Graphviz dot format",
	Long: `Prints the child-of hierarchy as a Graphviz digraph. Completed requirements
are green and open critical requirements red.

Example:
  reqsnake graph | dot -Tsvg > requirements.svg`,
	Args: cobra.NoArgs,
	RunE: runGraph,
}

func init() {
	siteCmd.Flags().StringVarP(&siteOutput, "output", "o", "", "output directory (default from config)")
	siteCmd.Flags().BoolVar(&siteHTML, "html", false, "write HTML instead of markdown")
	graphCmd.Flags().StringVarP(&graphOut, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(siteCmd)
	rootCmd.AddCommand(graphCmd)
}

func runSite(cmd *cobra.Command, _ []string) error {
	if siteService == nil {
		return errors.New("site service not configured")
	}

	opts := domain.SiteOptions{Output: siteOutput, HTML: siteHTML}
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		if opts.Output == "" {
			opts.Output = settings.Site.Output
		}
		if !cmd.Flags().Changed("html") {
			opts.HTML = settings.Site.HTML
		}
	}
	if opts.Output == "" {
		return errors.New("no output directory given")
	}
	opts.Output = resolvePath(opts.Output)
	opts.SourceRoot = sourceRoot(opts.Output)

	result, err := siteService.Generate(cmd.Context(), opts)
	if err != nil {
		return err
	}

	p := stylesFor(cmd.OutOrStdout())
	cmd.Printf("%s Wrote %d pages to %s\n", p.ok.Render("✓"), len(result.Pages), result.Output)
	return nil
}

func runGraph(cmd *cobra.Command, _ []string) error {
	if siteService == nil {
		return errors.New("site service not configured")
	}

	dot, err := siteService.Graph(cmd.Context())
	if err != nil {
		return err
	}

	if graphOut == "" {
		cmd.Print(string(dot))
		return nil
	}
	path := resolvePath(graphOut)
	if err := fsutil.WriteFileAtomic(path, dot, 0o644); err != nil {
		return fmt.Errorf("writing graph: %w", err)
	}
	cmd.Printf("Wrote %s\n", path)
	return nil
}

// resolvePath makes p relative to the project directory unless absolute.
func resolvePath(p string) string {
	if filepath.IsAbs(p) || projectDir == "" {
		return p
	}
	return filepath.Join(projectDir, p)
}

// sourceRoot returns the slash path from the site directory back to the
// project directory, or "" when it cannot be computed.
func sourceRoot(output string) string {
	if projectDir == "" {
		return ""
	}
	abs, err := filepath.Abs(output)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(abs, projectDir)
	if err != nil {
		return ""
	}
	return filepath.ToSlash(rel)
}
