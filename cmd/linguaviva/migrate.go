// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package main

import (
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/linguaviva/linguaviva/internal/store"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back or inspect schema migrations on the PostgreSQL database.`,
	}

	cmd.PersistentFlags().String("database-url", "", "PostgreSQL URL (default: DATABASE_URL environment variable)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *store.Migrator) error {
					if err := m.Up(); err != nil {
						return err
					}
					cmd.Println("Migrations applied")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations (destroys all data)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *store.Migrator) error {
					if err := m.Down(); err != nil {
						return err
					}
					cmd.Println("Migrations rolled back")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the current migration version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *store.Migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					state := "clean"
					if dirty {
						state = "dirty"
					}
					cmd.Println(fmt.Sprintf("Version: %d (%s)", version, state))
					return nil
				})
			},
		},
	)

	return cmd
}

// databaseURL resolves the connection string from the flag or the
// DATABASE_URL environment variable.
func databaseURL(cmd *cobra.Command) (string, error) {
	url, err := cmd.Flags().GetString("database-url")
	if err == nil && url != "" {
		return url, nil
	}
	if env := os.Getenv("DATABASE_URL"); env != "" {
		return env, nil
	}
	return "", oops.Code("CONFIG_INVALID").Errorf("--database-url flag or DATABASE_URL environment variable is required")
}

func withMigrator(cmd *cobra.Command, fn func(*store.Migrator) error) error {
	url, err := databaseURL(cmd)
	if err != nil {
		return err
	}

	migrator, err := store.NewMigrator(url)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			cmd.PrintErrln("warning: " + closeErr.Error())
		}
	}()

	return fn(migrator)
}
