package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adibus/fleet/internal/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "ADIBUS fleet administration API",
	Long: `Serves the REST API used by the ADIBUS admin panel: the bus registry,
seat and schedule edits, fare cards, the seat manifest export and the
contact form relay.

Settings come from environment variables and, optionally, a YAML file
given with -c or CONFIG_FILE. Environment variables win over the file.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, newLogger(cfg.LogLevel))
	},
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file path")
	rootCmd.AddCommand(migrateCmd)
}

// fixConfigPath falls back to CONFIG_FILE when -c was not given. With
// neither set, configuration comes from the environment alone.
func fixConfigPath() {
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_FILE")
	}
}

// newLogger builds the JSON logger and installs it as the slog default.
// An unrecognised level falls back to info.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// commandContext is the context for one-shot sub-commands.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
