// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

// Package store provides database connectivity and schema management.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Connection retry parameters. A freshly started database (e.g. a
// container alongside the app) can take a few seconds to accept
// connections, so the first ping is retried with fibonacci backoff.
const (
	pingRetryBase = 500 * time.Millisecond
	pingRetryMax  = 5
)

// NewPool connects a pgx pool to the given database URL and verifies
// connectivity before returning.
func NewPool(ctx context.Context, databaseURL string, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "create pool").
			Wrap(err)
	}

	backoff := retry.WithMaxRetries(pingRetryMax, retry.NewFibonacci(pingRetryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			logger.Debug("database not ready, retrying", "error", pingErr)
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "ping database").
			Wrap(err)
	}

	return pool, nil
}
