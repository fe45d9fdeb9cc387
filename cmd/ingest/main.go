// Command ingest is the warehouse load CLI.
//
// Usage:
//
//	timeslot-ingest load --years 2022-2024
//	timeslot-ingest load --daily --recent-weeks 4
//	timeslot-ingest backfill
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fourthdownlabs/timeslot-data/internal/config"
	"github.com/fourthdownlabs/timeslot-data/internal/db"
	"github.com/fourthdownlabs/timeslot-data/internal/pipeline"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "timeslot-ingest",
		Short: "NFL time-slot warehouse load CLI",
	}

	root.AddCommand(loadCmd())
	root.AddCommand(backfillCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// load command
// --------------------------------------------------------------------------

func loadCmd() *cobra.Command {
	var (
		years       string
		replace     bool
		daily       bool
		rosterOnly  bool
		recentWeeks int
	)
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Run a full warehouse load",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if years != "" {
					parsed, err := config.ParseYears(years)
					if err != nil {
						return fmt.Errorf("parse --years: %w", err)
					}
					cfg.Years = parsed
				}
				if cmd.Flags().Changed("replace") {
					cfg.ReplaceMode = replace
				}
				if daily {
					cfg.DailyMode = true
				}
				if rosterOnly {
					cfg.CurrentRosterOnly = true
				}
				if cmd.Flags().Changed("recent-weeks") {
					cfg.RecentWeeks = recentWeeks
				}

				logger.Info("Starting load",
					"years", fmt.Sprintf("%d-%d", cfg.MinYear(), cfg.MaxYear()),
					"replace", cfg.ReplaceMode,
					"daily", cfg.DailyMode,
					"roster_only", cfg.CurrentRosterOnly)

				start := time.Now()
				result, err := pipeline.New(cfg, pool, logger).Run(ctx)
				if err != nil {
					return err
				}
				logger.Info("Load finished",
					"duration", time.Since(start).Round(time.Second),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("load error", "error", e)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&years, "years", "", `Seasons to load ("2015-2024" or "2022,2023"); defaults to YEARS env`)
	cmd.Flags().BoolVar(&replace, "replace", true, "Delete target seasons before loading")
	cmd.Flags().BoolVar(&daily, "daily", false, "Load only the trailing weeks of the latest season")
	cmd.Flags().BoolVar(&rosterOnly, "roster-only", false, "Keep only players on the latest season's roster")
	cmd.Flags().IntVar(&recentWeeks, "recent-weeks", 4, "Trailing week count for --daily")
	return cmd
}

// --------------------------------------------------------------------------
// backfill command
// --------------------------------------------------------------------------

func backfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Rewrite synthetic player ids from roster data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				start := time.Now()
				n, err := pipeline.New(cfg, pool, logger).Backfill(ctx)
				if err != nil {
					return err
				}
				logger.Info("Backfill finished",
					"rewritten", n,
					"duration", time.Since(start).Round(time.Second))
				return nil
			})
		},
	}
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// run handles config loading, DB connection, and context cancellation.
func run(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
