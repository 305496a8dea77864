// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the LinguaViva CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linguaviva",
		Short: "LinguaViva - registration and login for an Italian-learning site",
		Long: `LinguaViva serves the registration, login and member pages of a
small multi-role Italian-learning web application.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().String("config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}
