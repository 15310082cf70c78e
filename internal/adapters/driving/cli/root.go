// Package cli provides the reqsnake command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driving"
	"github.com/custodia-labs/reqsnake/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// Exit codes returned by Execute.
const (
	ExitOK    = 0
	ExitError = 1
	ExitDrift = 2
)

// Options carries the global flags to the service factory.
type Options struct {
	// Dir is the project directory holding the documents and lockfile.
	Dir string

	// ConfigPath overrides the config file location.
	ConfigPath string

	// GitHub selects the GitHub source ("owner/repo[@ref]") instead of Dir.
	GitHub string

	// Lenient ignores unknown attributes regardless of config.
	Lenient bool

	// MissingParents enables the missing-parent validator regardless of config.
	MissingParents bool
}

// Watcher reports document changes. Sources that cannot watch leave
// Services.Watcher nil.
type Watcher interface {
	Watch(ctx context.Context) (<-chan domain.DocumentChange, error)
}

// Services holds everything the commands call.
type Services struct {
	Requirements driving.RequirementService
	Status       driving.StatusService
	Settings     driving.SettingsService
	History      driving.HistoryService
	Site         driving.SiteService
	Watcher      Watcher

	// ProjectDir is the absolute project directory.
	ProjectDir string

	// Close releases stores and sources. May be nil.
	Close func() error
}

// ServiceFactory builds services from the global flags.
type ServiceFactory func(opts Options) (*Services, error)

var (
	requirementService driving.RequirementService
	statusService      driving.StatusService
	settingsService    driving.SettingsService
	historyService     driving.HistoryService
	siteService        driving.SiteService
	watcher            Watcher
	projectDir         string
	closeServices      func() error

	serviceFactory ServiceFactory
	globalOpts     Options
)

var rootCmd = &cobra.Command{
	Use:   "reqsnake",
	Short: "Track requirements written in markdown",
	Long: `reqsnake extracts requirements from block-quotes in markdown documents,
validates their child-of hierarchy, and keeps a lockfile of the accepted set.

A requirement is a block-quote whose first line is its ID and whose second
line is its description. Further lines mark it critical or completed, or
name a parent with "child-of: ID".`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupServices,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&globalOpts.Dir, "dir", "C", ".", "project directory")
	flags.StringVar(&globalOpts.ConfigPath, "config", "", "config file (default <dir>/reqsnake.toml)")
	flags.StringVar(&globalOpts.GitHub, "github", "", "read documents from a GitHub repository (owner/repo[@ref])")
	flags.BoolVar(&globalOpts.Lenient, "lenient", false, "ignore unknown attributes")
	flags.BoolVar(&globalOpts.MissingParents, "check-missing-parents", false,
		"fail when child-of names an unknown requirement")
	flags.BoolP("verbose", "v", false, "print debug output to stderr")
}

// SetServiceFactory sets the function used to build services before a
// command runs.
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

// SetServices installs services directly, bypassing the factory.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	requirementService = s.Requirements
	statusService = s.Status
	settingsService = s.Settings
	historyService = s.History
	siteService = s.Site
	watcher = s.Watcher
	projectDir = s.ProjectDir
	closeServices = s.Close
}

// needsServices reports whether cmd calls any service.
func needsServices(cmd *cobra.Command) bool {
	return cmd.Annotations["services"] != "none"
}

func setupServices(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger.SetVerbose(verbose)

	if serviceFactory == nil || !needsServices(cmd) {
		return nil
	}
	services, err := serviceFactory(globalOpts)
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

// exitError carries a non-default exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if closeServices != nil {
		if cerr := closeServices(); cerr != nil {
			logger.Warn("closing services: %v", cerr)
		}
	}
	return exitCode(rootCmd, err)
}

func exitCode(cmd *cobra.Command, err error) int {
	if err == nil {
		return ExitOK
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitError
}
