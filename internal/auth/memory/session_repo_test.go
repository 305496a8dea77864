// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaviva/linguaviva/internal/auth"
	"github.com/linguaviva/linguaviva/internal/auth/memory"
)

func newSession(t *testing.T, username, token string) *auth.Session {
	t.Helper()
	session, err := auth.NewSession(username, auth.HashSessionToken(token))
	require.NoError(t, err)
	return session
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSessionRepository()

	session := newSession(t, "alice", "token123")
	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.GetByTokenHash(ctx, session.TokenHash)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
}

func TestSessionRepository_CreateDuplicateHash(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSessionRepository()

	require.NoError(t, repo.Create(ctx, newSession(t, "alice", "token123")))

	err := repo.Create(ctx, newSession(t, "bob", "token123"))
	require.Error(t, err)
}

func TestSessionRepository_GetUnknownHash(t *testing.T) {
	repo := memory.NewSessionRepository()

	_, err := repo.GetByTokenHash(context.Background(), "deadbeef")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestSessionRepository_GetByUsername(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSessionRepository()

	require.NoError(t, repo.Create(ctx, newSession(t, "alice", "token1")))
	require.NoError(t, repo.Create(ctx, newSession(t, "alice", "token2")))
	require.NoError(t, repo.Create(ctx, newSession(t, "bob", "token3")))

	sessions, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	sessions, err = repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSessionRepository_UpdateLastSeen(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSessionRepository()

	session := newSession(t, "alice", "token123")
	require.NoError(t, repo.Create(ctx, session))

	later := session.LastSeenAt.Add(time.Hour)
	require.NoError(t, repo.UpdateLastSeen(ctx, session.ID, later))

	got, err := repo.GetByTokenHash(ctx, session.TokenHash)
	require.NoError(t, err)
	assert.True(t, got.LastSeenAt.Equal(later))
}

func TestSessionRepository_UpdateLastSeenUnknown(t *testing.T) {
	repo := memory.NewSessionRepository()

	err := repo.UpdateLastSeen(context.Background(), ulid.Make(), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestSessionRepository_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSessionRepository()

	session := newSession(t, "alice", "token123")
	require.NoError(t, repo.Create(ctx, session))

	require.NoError(t, repo.DeleteByTokenHash(ctx, session.TokenHash))
	_, err := repo.GetByTokenHash(ctx, session.TokenHash)
	assert.ErrorIs(t, err, auth.ErrNotFound)

	// Deleting again is a no-op
	require.NoError(t, repo.DeleteByTokenHash(ctx, session.TokenHash))
}
