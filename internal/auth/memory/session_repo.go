// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/linguaviva/linguaviva/internal/auth"
)

// SessionRepository implements auth.SessionRepository with a mutex-guarded
// map keyed by token hash.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]auth.Session
}

// NewSessionRepository creates an empty SessionRepository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]auth.Session),
	}
}

// Create satisfies auth.SessionRepository.
func (r *SessionRepository) Create(_ context.Context, session *auth.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.TokenHash]; ok {
		return oops.Code("SESSION_DUPLICATE").Errorf("session token hash already exists")
	}
	r.sessions[session.TokenHash] = *session
	return nil
}

// GetByTokenHash satisfies auth.SessionRepository.
func (r *SessionRepository) GetByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[tokenHash]
	if !ok {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	return &session, nil
}

// GetByUsername satisfies auth.SessionRepository.
func (r *SessionRepository) GetByUsername(_ context.Context, username string) ([]*auth.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sessions []*auth.Session
	for _, s := range r.sessions {
		if s.Username == username {
			s := s
			sessions = append(sessions, &s)
		}
	}
	return sessions, nil
}

// UpdateLastSeen satisfies auth.SessionRepository.
func (r *SessionRepository) UpdateLastSeen(_ context.Context, id ulid.ULID, lastSeen time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, s := range r.sessions {
		if s.ID.Compare(id) == 0 {
			s.LastSeenAt = lastSeen
			r.sessions[hash] = s
			return nil
		}
	}
	return oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
}

// DeleteByTokenHash satisfies auth.SessionRepository. Deleting an absent
// session is a no-op.
func (r *SessionRepository) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, tokenHash)
	return nil
}

var _ auth.SessionRepository = (*SessionRepository)(nil)
