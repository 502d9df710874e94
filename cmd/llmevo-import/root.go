package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/adapters/repository"
	app "github.com/TamNgne/a-story-of-LLMs-evolution/internal/app"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/config"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/loader"
	"github.com/TamNgne/a-story-of-LLMs-evolution/pkg/logger"
)

// cliFlags holds the persistent flags shared by every subcommand.
type cliFlags struct {
	configPath string
	logLevel   string
}

// buildRootCmd constructs the command tree.
func buildRootCmd() *cobra.Command {
	flags := &cliFlags{}

	root := &cobra.Command{
		Use:           "llmevo-import",
		Short:         "Load benchmark collections and inspect the score frontier",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML config file (defaults LLMEVO_CONFIG)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug|info|warn|error (defaults to the config)")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import collections into the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("import requires a subcommand: json|csv")
		},
	}

	var (
		drop    bool
		workers int
	)
	importJSON := &cobra.Command{
		Use:     "json DIR",
		Short:   "Import every *.json export in DIR, one collection per file",
		Example: "  llmevo-import import json ./dumps --drop",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), flags, func(ctx context.Context, store repository.Store) error {
				ld := loader.New(store, loader.WithWorkers(workers), loader.WithLogger(logger.Named("loader")))
				sum, err := ld.ImportJSONDir(ctx, args[0], drop)
				sum.Print(cmd.OutOrStdout())
				return err
			})
		},
	}
	importJSON.Flags().BoolVar(&drop, "drop", false, "Drop each collection before inserting")
	importJSON.Flags().IntVar(&workers, "workers", 0, "Concurrent import workers (defaults to CPU count)")

	importCSV := &cobra.Command{
		Use:     "csv FILE",
		Short:   "Replace the comparison chart collection with the rows of FILE",
		Example: "  llmevo-import import csv ./comparison.csv",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), flags, func(ctx context.Context, store repository.Store) error {
				ld := loader.New(store, loader.WithLogger(logger.Named("loader")))
				sum, err := ld.ImportCSV(ctx, args[0])
				sum.Print(cmd.OutOrStdout())
				return err
			})
		},
	}
	importCmd.AddCommand(importJSON, importCSV)

	var width, height int
	frontierCmd := &cobra.Command{
		Use:   "frontier",
		Short: "Plot the best average score over release dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), flags, func(ctx context.Context, store repository.Store) error {
				svc := app.New(app.WithStore(store), app.WithLogger(logger.Named("service")))
				if err := svc.Start(ctx); err != nil {
					return err
				}
				points, err := svc.Trend(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), loader.RenderFrontier(points, width, height))
				return nil
			})
		},
	}
	frontierCmd.Flags().IntVar(&width, "width", 60, "Plot width in columns")
	frontierCmd.Flags().IntVar(&height, "height", 12, "Plot height in rows")

	root.AddCommand(importCmd, frontierCmd)
	return root
}

// withStore loads the config, applies the log level and opens the store
// for the duration of fn.
func withStore(ctx context.Context, flags *cliFlags, fn func(context.Context, repository.Store) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if flags.configPath != "" {
		if err := os.Setenv(config.EnvConfig, flags.configPath); err != nil {
			return err
		}
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	if err := logger.SetLevelString(level); err != nil {
		return err
	}

	store, err := repository.Open(ctx, repository.Options{
		Driver:        cfg.StoreDriver,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
		SQLitePath:    cfg.SQLitePath,
	})
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer func() { _ = store.Close(context.Background()) }()

	return fn(ctx, store)
}
