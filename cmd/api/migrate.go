package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver for goose
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/adibus/fleet/internal/config"
	"github.com/adibus/fleet/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the Postgres schema",
	Long: `Applies or rolls back the embedded goose migrations against
DATABASE_URL. The server also applies pending migrations on start unless
MIGRATE_ON_START=false.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadPostgresConfig()
		if err != nil {
			return err
		}
		return migrateUp(commandContext(cmd), cfg.DatabaseURL, newLogger(cfg.LogLevel))
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadPostgresConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg.LogLevel)
		return withProvider(cfg.DatabaseURL, func(p *goose.Provider) error {
			res, err := p.Down(commandContext(cmd))
			if errors.Is(err, goose.ErrNoNextVersion) {
				log.Info("no migrations to roll back")
				return nil
			}
			if err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			log.Info("migration rolled back", "version", res.Source.Version, "path", res.Source.Path)
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of every migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadPostgresConfig()
		if err != nil {
			return err
		}
		return withProvider(cfg.DatabaseURL, func(p *goose.Provider) error {
			statuses, err := p.Status(commandContext(cmd))
			if err != nil {
				return fmt.Errorf("migrate status: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, s := range statuses {
				applied := "-"
				if !s.AppliedAt.IsZero() {
					applied = s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(out, "%-8s %-20s %s\n", s.State, applied, s.Source.Path)
			}
			return nil
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

// loadPostgresConfig loads settings and rejects the memory driver, which has
// no schema to migrate.
func loadPostgresConfig() (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, err
	}
	if cfg.StorageDriver != config.StoragePostgres {
		return config.Config{}, fmt.Errorf("migrate requires STORAGE_DRIVER=%s", config.StoragePostgres)
	}
	return cfg, nil
}

// migrateUp applies every pending migration and logs each one.
func migrateUp(ctx context.Context, dsn string, log *slog.Logger) error {
	return withProvider(dsn, func(p *goose.Provider) error {
		results, err := p.Up(ctx)
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		for _, r := range results {
			log.Info("migration applied", "version", r.Source.Version, "path", r.Source.Path, "duration", r.Duration)
		}
		if len(results) == 0 {
			log.Info("database schema up to date")
		}
		return nil
	})
}

// withProvider opens a database/sql handle for goose, runs fn and closes
// the handle.
func withProvider(dsn string, fn func(*goose.Provider) error) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	p, err := migrations.NewProvider(db)
	if err != nil {
		return err
	}
	return fn(p)
}
