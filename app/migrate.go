package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"repair-office/migrations"
	"repair-office/pkg/config"
	"repair-office/pkg/database/postgresql"
	applogger "repair-office/pkg/logger"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProvider(cmd, func(p *goose.Provider) error {
				results, err := p.Up(cmd.Context())
				printResults(results)
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProvider(cmd, func(p *goose.Provider) error {
				result, err := p.Down(cmd.Context())
				if result != nil {
					printResults([]*goose.MigrationResult{result})
				}
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show which migrations are applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProvider(cmd, func(p *goose.Provider) error {
				statuses, err := p.Status(cmd.Context())
				if err != nil {
					return err
				}
				for _, s := range statuses {
					state := color.New(color.FgYellow).Sprint("PENDING")
					if s.State == goose.StateApplied {
						state = color.New(color.FgGreen).Sprint("APPLIED")
					}
					fmt.Printf("  %s  %05d  %s\n", state, s.Source.Version, s.Source.Path)
				}
				return nil
			})
		},
	})

	return cmd
}

func withProvider(cmd *cobra.Command, fn func(p *goose.Provider) error) error {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, "")
	defer logger.Sync() //nolint:errcheck

	pool, err := postgresql.ConnectDB(cmd.Context(), cfg.Postgres.DSN, 2, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := migrations.NewProvider(db)
	if err != nil {
		return err
	}
	return fn(provider)
}

func printResults(results []*goose.MigrationResult) {
	if len(results) == 0 {
		fmt.Println(color.New(color.FgBlue).Sprint("no migrations to run"))
		return
	}
	for _, r := range results {
		mark := color.New(color.FgGreen).Sprint("OK  ")
		if r.Error != nil {
			mark = color.New(color.FgRed).Sprint("FAIL")
		}
		fmt.Printf("  %s  %05d  %s (%s)\n", mark, r.Source.Version, r.Source.Path, r.Duration.Round(time.Millisecond))
	}
}
