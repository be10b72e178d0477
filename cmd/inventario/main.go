// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the inventario binary. It exposes the
// HTTP server and the maintenance tasks (migrations, user creation) as
// cobra subcommands sharing one configuration.
package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"inventario/internal/config"
	"inventario/internal/database"
	"inventario/internal/logging"
)

var (
	// envFile is set by the --env-file flag.
	envFile string

	// v holds defaults, environment and bound flags; cfg is built from it
	// before any subcommand runs.
	v   = config.New()
	cfg *config.Config

	logCloser io.Closer
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "inventario",
	Short:         "Inventory of products, categories and tags",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env-file", ".env", "KEY=value file merged under the environment")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-file", "", "also write logs to this rotated file")
	mustBind(config.KeyLogLevel, flags.Lookup("log-level"))
	mustBind(config.KeyLogFile, flags.Lookup("log-file"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createUserCmd)
}

// setup loads the configuration and installs the default logger.
func setup() error {
	if err := config.ReadEnvFile(v, envFile); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load(v)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	var logger *slog.Logger
	logger, logCloser = logging.New(logging.Options{
		Dev:   cfg.IsDev(),
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
	})
	slog.SetDefault(logger)

	slog.Debug("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())
	return nil
}

// openDB connects to PostgreSQL and applies pending migrations.
func openDB() (*sql.DB, error) {
	db, err := database.Connect(cfg.DSN(), cfg.PoolOptions())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

// mustBind lets a flag, when given, override the config key. Unset flags
// leave the environment and defaults in charge.
func mustBind(key string, f *pflag.Flag) {
	if err := v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}
