// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// SessionTokenBytes is the entropy of a session token. 32 bytes = 64 hex chars.
const SessionTokenBytes = 32

// Session binds an opaque token to an authenticated identity. The
// plaintext token is handed to the client; only its SHA-256 hash is
// stored. Sessions do not expire on their own; they live until Logout
// destroys them.
type Session struct {
	ID         ulid.ULID
	Username   string
	TokenHash  string
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// NewSession creates a validated Session bound to username.
func NewSession(username, tokenHash string) (*Session, error) {
	if username == "" {
		return nil, oops.Code("SESSION_INVALID_IDENTITY").Errorf("username cannot be empty")
	}
	if tokenHash == "" {
		return nil, oops.Code("SESSION_INVALID_HASH").Errorf("token hash cannot be empty")
	}

	now := time.Now()
	return &Session{
		ID:         ulid.Make(),
		Username:   username,
		TokenHash:  tokenHash,
		CreatedAt:  now,
		LastSeenAt: now,
	}, nil
}

// GenerateSessionToken creates a secure random token and its hash.
// Returns (plaintext_token, sha256_hash, error).
// The plaintext token is sent to the client; the hash is stored.
func GenerateSessionToken() (token, hash string, err error) {
	tokenBytes := make([]byte, SessionTokenBytes)
	if _, err = rand.Read(tokenBytes); err != nil {
		return "", "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", SessionTokenBytes).
			Wrap(err)
	}

	token = hex.EncodeToString(tokenBytes)
	hash = HashSessionToken(token)

	return token, hash, nil
}

// HashSessionToken computes the SHA256 hash of a session token.
func HashSessionToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// VerifySessionToken checks if the plaintext token matches the stored hash.
// Uses constant-time comparison to prevent timing attacks.
func VerifySessionToken(token, hash string) (bool, error) {
	if token == "" {
		return false, oops.Code("SESSION_TOKEN_EMPTY").Errorf("session token cannot be empty")
	}
	if hash == "" {
		return false, oops.Code("SESSION_HASH_EMPTY").Errorf("stored hash cannot be empty")
	}
	computed := HashSessionToken(token)
	// Both are hex-encoded SHA256 hashes (64 chars), use constant-time compare
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1, nil
}

// SessionRepository manages session persistence. Implementations must be
// safe under concurrent access; the token-to-identity mapping is shared
// process-wide mutable state.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// GetByTokenHash retrieves a session by its token hash.
	// Returns ErrNotFound (wrapped) if no such session exists.
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// GetByUsername retrieves all sessions bound to an identity.
	GetByUsername(ctx context.Context, username string) ([]*Session, error)

	// UpdateLastSeen updates the LastSeenAt timestamp for a session.
	UpdateLastSeen(ctx context.Context, id ulid.ULID, lastSeen time.Time) error

	// DeleteByTokenHash removes the session with the given token hash.
	// Deleting an absent session is not an error.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
}
