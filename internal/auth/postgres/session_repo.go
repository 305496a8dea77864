// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/linguaviva/linguaviva/internal/auth"
)

// SessionRepository implements auth.SessionRepository using PostgreSQL.
type SessionRepository struct {
	pool poolIface
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool poolIface) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create stores a new session.
func (r *SessionRepository) Create(ctx context.Context, session *auth.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, username, token_hash, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		session.ID.String(),
		session.Username,
		session.TokenHash,
		session.CreatedAt,
		session.LastSeenAt,
	)
	if err != nil {
		return oops.Code("SESSION_CREATE_FAILED").
			With("operation", "insert session").
			With("username", session.Username).
			Wrap(err)
	}
	return nil
}

// GetByTokenHash retrieves a session by its token hash.
func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*auth.Session, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, token_hash, created_at, last_seen_at
		FROM sessions
		WHERE token_hash = $1
	`, tokenHash)

	session, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SESSION_GET_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}
	return session, nil
}

// GetByUsername retrieves all sessions bound to an identity.
func (r *SessionRepository) GetByUsername(ctx context.Context, username string) ([]*auth.Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, token_hash, created_at, last_seen_at
		FROM sessions
		WHERE username = $1
	`, username)
	if err != nil {
		return nil, oops.Code("SESSION_GET_BY_USERNAME_FAILED").
			With("operation", "query sessions by username").
			With("username", username).
			Wrap(err)
	}
	defer rows.Close()

	var sessions []*auth.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, oops.Code("SESSION_GET_BY_USERNAME_FAILED").
				With("operation", "scan session row").
				With("username", username).
				Wrap(err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("SESSION_GET_BY_USERNAME_FAILED").
			With("operation", "iterate session rows").
			With("username", username).
			Wrap(err)
	}
	return sessions, nil
}

// UpdateLastSeen updates the LastSeenAt timestamp for a session.
func (r *SessionRepository) UpdateLastSeen(ctx context.Context, id ulid.ULID, lastSeen time.Time) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE sessions SET last_seen_at = $2 WHERE id = $1
	`, id.String(), lastSeen)
	if err != nil {
		return oops.Code("SESSION_UPDATE_LAST_SEEN_FAILED").
			With("operation", "update last seen").
			With("session_id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("SESSION_NOT_FOUND").
			With("session_id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// DeleteByTokenHash removes the session with the given token hash.
// Zero rows affected is not an error; destroy is idempotent.
func (r *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM sessions WHERE token_hash = $1
	`, tokenHash)
	if err != nil {
		return oops.Code("SESSION_DELETE_FAILED").
			With("operation", "delete session by token hash").
			Wrap(err)
	}
	return nil
}

// scanSession scans a single row into a Session.
// Callers are responsible for handling pgx.ErrNoRows.
func scanSession(row pgx.Row) (*auth.Session, error) {
	var idStr string
	session := &auth.Session{}

	err := row.Scan(
		&idStr,
		&session.Username,
		&session.TokenHash,
		&session.CreatedAt,
		&session.LastSeenAt,
	)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("SESSION_SCAN_FAILED").
			With("operation", "scan session").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("SESSION_INVALID_ID").
			With("operation", "parse session id").
			With("id", idStr).
			Wrap(err)
	}
	session.ID = id
	return session, nil
}

var _ auth.SessionRepository = (*SessionRepository)(nil)
