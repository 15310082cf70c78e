package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/logger"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-validate whenever a document changes",
	Long: `Validates the documents, then watches the project for changes and
validates again after each burst of edits. Changes arriving within
--interval of the previous run are folded into the next one.

Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 500*time.Millisecond,
		"minimum time between validations")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if requirementService == nil {
		return errors.New("requirement service not configured")
	}
	if watcher == nil {
		return errors.New("this source cannot be watched")
	}
	if watchInterval <= 0 {
		return errors.New("--interval must be positive")
	}

	ctx := cmd.Context()
	changes, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}

	cmd.Println("Watching for changes (Ctrl+C to stop)...")
	validate := func() { printValidation(cmd) }
	validate()
	watchLoop(ctx, changes, rate.NewLimiter(rate.Every(watchInterval), 1), validate)
	return nil
}

// watchLoop calls run once per burst of changes until ctx ends or the
// change channel closes. The limiter spaces runs apart; changes that
// arrive while waiting for it are coalesced into the next run.
func watchLoop(ctx context.Context, changes <-chan domain.DocumentChange, limiter *rate.Limiter, run func()) {
	// The initial validation has already used the first token.
	limiter.Allow()
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			logger.Debug("%s %s", change.Type, change.Source)
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			if !drain(changes) {
				run()
				return
			}
			run()
		}
	}
}

// drain discards queued changes. It returns false once the channel is closed.
func drain(changes <-chan domain.DocumentChange) bool {
	for {
		select {
		case change, ok := <-changes:
			if !ok {
				return false
			}
			logger.Debug("%s %s (coalesced)", change.Type, change.Source)
		default:
			return true
		}
	}
}

func printValidation(cmd *cobra.Command) {
	p := stylesFor(cmd.OutOrStdout())
	stamp := p.dim.Render(time.Now().Format("15:04:05"))

	reqs, err := requirementService.Validate(cmd.Context())
	if err != nil {
		cmd.Printf("%s %s %v\n", stamp, p.fail.Render("✗"), err)
		return
	}
	cmd.Printf("%s %s %d requirements are valid\n", stamp, p.ok.Render("✓"), len(reqs))
}
