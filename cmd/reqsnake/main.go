// Command reqsnake tracks requirements written in markdown block-quotes.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/reqsnake/internal/adapters/driven/config/file"
	"github.com/custodia-labs/reqsnake/internal/adapters/driven/render/html"
	"github.com/custodia-labs/reqsnake/internal/adapters/driven/render/markdown"
	"github.com/custodia-labs/reqsnake/internal/adapters/driven/render/output"
	snapshotfile "github.com/custodia-labs/reqsnake/internal/adapters/driven/snapshot/file"
	"github.com/custodia-labs/reqsnake/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/reqsnake/internal/adapters/driven/source/github"
	"github.com/custodia-labs/reqsnake/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/reqsnake/internal/adapters/driving/cli"
	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driving"
	"github.com/custodia-labs/reqsnake/internal/core/services"
	"github.com/custodia-labs/reqsnake/internal/logger"
)

func main() {
	cli.SetServiceFactory(newServices)
	os.Exit(cli.Execute())
}

// newServices wires the adapters for one command run.
func newServices(opts cli.Options) (*cli.Services, error) {
	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = dir
	}
	configStore, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	if opts.Lenient {
		settings.Parser.UnknownAttributes = domain.UnknownAttributeIgnore
	}
	if opts.MissingParents {
		settings.Validation.MissingParents = true
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	source, watcher, err := newSource(opts, dir, settings)
	if err != nil {
		return nil, err
	}
	closers = append(closers, source.Close)

	snapshots, err := snapshotfile.NewStore(projectPath(dir, settings.Lockfile.Path), settings.Lockfile.Format)
	if err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("opening lockfile store: %w", err)
	}

	var history driving.HistoryService
	if settings.History.Enabled {
		store, err := sqlite.NewStore(projectPath(dir, settings.History.Path))
		if err != nil {
			// History is a convenience; commands still run without it.
			logger.Warn("history disabled: %v", err)
		} else {
			closers = append(closers, store.Close)
			history = services.NewHistoryService(store.HistoryStore())
		}
	}

	md := markdown.New()
	requirements := services.NewRequirementService(source, snapshots, history, settings)

	return &cli.Services{
		Requirements: requirements,
		Status:       services.NewStatusService(requirements, snapshots, md),
		Settings:     settingsService,
		Site:         services.NewSiteService(requirements, md, html.New(md), output.NewWriter()),
		History:      history,
		Watcher:      watcher,
		ProjectDir:   dir,
		Close:        closeAll,
	}, nil
}

func newSource(opts cli.Options, dir string, settings *domain.Settings) (driven.DocumentSource, cli.Watcher, error) {
	if opts.GitHub == "" {
		fs := filesystem.New(dir, filesystem.ConfigFromSettings(settings.Source))
		return fs, fs, nil
	}

	repo, err := github.ParseRepository(opts.GitHub)
	if err != nil {
		return nil, nil, err
	}
	var token string
	if settings.GitHub.TokenEnv != "" {
		token = os.Getenv(settings.GitHub.TokenEnv)
	}
	if token == "" {
		logger.Debug("no GitHub token set, using anonymous access")
	}
	client := github.NewClientWithToken(context.Background(), token)
	return github.New(client, github.Config{
		Repository: repo,
		Include:    settings.Source.Include,
		IgnoreFile: settings.Source.IgnoreFile,
	}), nil, nil
}

// projectPath resolves p against the project directory unless it is absolute.
func projectPath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
