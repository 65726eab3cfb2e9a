package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"pagetree/internal/config"
	repo "pagetree/internal/domain/repositories/content"
	"pagetree/internal/repository/fixtures"
	"pagetree/internal/repository/memory"
	"pagetree/internal/repository/postgres"
	postgresContent "pagetree/internal/repository/postgres/content"
	"pagetree/internal/schema"
	serviceContent "pagetree/internal/service/content"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type storeFlags struct {
	fixtures    string
	databaseURL string
	tablePrefix string
	schemaDir   string
	locale      string
	timezone    string
	maxDepth    int
	json        bool
	verbose     bool
}

// app is what every subcommand runs against
type app struct {
	registry *schema.Registry
	records  repo.RecordRepository
	opts     serviceContent.Options
	logger   *slog.Logger
	out      io.Writer
	json     bool
	close    func()
}

// openApp resolves flags over the environment and opens the store
func openApp(ctx context.Context, cmd *cobra.Command, flags *storeFlags) (*app, error) {
	_ = godotenv.Load()
	cfg := config.Load()

	if flags.databaseURL != "" {
		cfg.DatabaseURL = flags.databaseURL
	}
	if flags.tablePrefix != "" {
		cfg.TablePrefix = flags.tablePrefix
	}
	if flags.schemaDir != "" {
		cfg.SchemaDir = flags.schemaDir
	}
	if flags.locale != "" {
		cfg.CollationLocale = flags.locale
	}
	if flags.timezone != "" {
		cfg.ArchiveTimezone = flags.timezone
	}
	if flags.maxDepth > 0 {
		cfg.MaxTreeDepth = flags.maxDepth
	}

	level := slog.LevelError
	if flags.verbose {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	registry, err := schema.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("load content types: %w", err)
	}
	if cfg.SchemaDir != "" {
		if err := registry.LoadDir(cfg.SchemaDir); err != nil {
			return nil, fmt.Errorf("load content types from %s: %w", cfg.SchemaDir, err)
		}
	}

	opts, err := serviceContent.OptionsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("archive timezone: %w", err)
	}

	a := &app{
		registry: registry,
		opts:     opts,
		logger:   logger,
		out:      cmd.OutOrStdout(),
		json:     flags.json,
		close:    func() {},
	}

	if flags.fixtures != "" {
		store := memory.NewStore()
		if _, err := fixtures.LoadFile(ctx, store, registry, flags.fixtures); err != nil {
			return nil, err
		}
		a.records = store
		return a, nil
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("either --fixtures or --database-url is required")
	}
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.records = postgresContent.NewRecordRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	})
	a.close = pool.Close
	return a, nil
}

// withApp adapts a subcommand body into a cobra RunE
func withApp(flags *storeFlags, run func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cmd, flags)
		if err != nil {
			return err
		}
		defer a.close()
		return run(cmd.Context(), a, args)
	}
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
