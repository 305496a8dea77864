// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/linguaviva/linguaviva/internal/auth"
	authpostgres "github.com/linguaviva/linguaviva/internal/auth/postgres"
	"github.com/linguaviva/linguaviva/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create demo accounts",
		Long: `Creates the demo accounts "alice" (primary) and "bob" (affiliate).
This command is idempotent - it will not create duplicates if run multiple times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().String("database-url", "", "PostgreSQL URL (default: DATABASE_URL environment variable)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	url, err := databaseURL(cmd)
	if err != nil {
		return err
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.NewPool(ctx, url, slog.Default())
	if err != nil {
		return err
	}
	defer pool.Close()

	cmd.Println("Running migrations...")
	migrator, err := store.NewMigrator(url)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return err
	}
	if err := migrator.Close(); err != nil {
		cmd.PrintErrln("warning: " + err.Error())
	}

	accounts := authpostgres.NewAccountRepository(pool)
	hasher := auth.NewArgon2idHasher()

	if err := seedPrimary(ctx, cmd, accounts, hasher); err != nil {
		return err
	}
	if err := seedAffiliate(ctx, cmd, accounts, hasher); err != nil {
		return err
	}

	cmd.Println("Seed complete")
	return nil
}

func seedPrimary(ctx context.Context, cmd *cobra.Command, accounts auth.AccountRepository, hasher auth.PasswordHasher) error {
	hash, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		return err
	}

	account, err := auth.NewAccount("alice", hash, auth.KindPrimary, nil)
	if err != nil {
		return err
	}

	if err := accounts.Create(ctx, account); err != nil {
		if errors.Is(err, auth.ErrDuplicateIdentity) {
			cmd.Println("Account alice already exists, skipping")
			return nil
		}
		return err
	}

	cmd.Println("Created primary account alice")
	return nil
}

func seedAffiliate(ctx context.Context, cmd *cobra.Command, accounts auth.AccountRepository, hasher auth.PasswordHasher) error {
	hash, err := hasher.Hash("hunter2hunter2")
	if err != nil {
		return err
	}

	account, err := auth.NewAccount("bob", hash, auth.KindAffiliate, nil)
	if err != nil {
		return err
	}

	profile := &auth.AffiliateProfile{
		Username:       "bob",
		FirstName:      "Bob",
		LastName:       "Rossi",
		Email:          "bob@example.com",
		PhoneNumber:    "+39 055 000000",
		ReferralSource: "demo data",
		Motivation:     "demo data",
		Expectations:   "demo data",
		CreatedAt:      time.Now().UTC(),
	}

	if err := accounts.CreateAffiliate(ctx, account, profile); err != nil {
		if errors.Is(err, auth.ErrDuplicateIdentity) {
			cmd.Println("Account bob already exists, skipping")
			return nil
		}
		return err
	}

	cmd.Println("Created affiliate account bob")
	return nil
}
