// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

// Package postgres provides PostgreSQL-backed implementations of the
// auth repositories.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// poolIface is the subset of pgxpool.Pool the repositories use.
// pgxmock satisfies it, which keeps the unit tests off a live database.
type poolIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
