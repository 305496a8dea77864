// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/linguaviva/linguaviva/pkg/errutil"
)

// Service provides registration, login and session operations.
type Service struct {
	accounts AccountRepository
	sessions SessionRepository
	hasher   PasswordHasher
	logger   *slog.Logger
}

// NewService creates a new Service with the default logger.
func NewService(accounts AccountRepository, sessions SessionRepository, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(accounts, sessions, hasher, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(accounts AccountRepository, sessions SessionRepository, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if accounts == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("accounts repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("sessions repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("logger is required")
	}
	return &Service{
		accounts: accounts,
		sessions: sessions,
		hasher:   hasher,
		logger:   logger,
	}, nil
}

// dummyPasswordHash is used when an account doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register creates an account (and, for affiliates, its profile) and
// establishes a session for the new identity.
//
// Validation failures are returned with their specific codes and never
// touch storage. Every storage failure, duplicate username included,
// comes back as the single AUTH_REGISTRATION_FAILED code so callers
// cannot probe which usernames exist. The cause stays in the wrapped
// chain for internal logs.
func (s *Service) Register(ctx context.Context, reg Registration) (*Account, string, error) {
	if err := reg.Validate(); err != nil {
		return nil, "", err
	}

	username, password := reg.credentials()

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		errutil.LogError(s.logger, "password hashing failed", err)
		return nil, "", oops.Code("AUTH_REGISTRATION_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account, token, err := s.createAccount(ctx, reg, username, passwordHash)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

func (s *Service) createAccount(ctx context.Context, reg Registration, username, passwordHash string) (*Account, string, error) {
	var (
		account *Account
		err     error
	)

	switch r := reg.(type) {
	case PrimaryRegistration:
		var code *string
		if r.AffiliationCode != "" {
			code = &r.AffiliationCode
		}
		account, err = NewAccount(username, passwordHash, KindPrimary, code)
		if err == nil {
			err = s.accounts.Create(ctx, account)
		}
	case AffiliateRegistration:
		account, err = NewAccount(username, passwordHash, KindAffiliate, nil)
		if err == nil {
			err = s.accounts.CreateAffiliate(ctx, account, r.profile())
		}
	default:
		return nil, "", oops.Code("AUTH_REGISTRATION_FAILED").
			With("kind", string(reg.Kind())).
			Errorf("unsupported registration variant")
	}

	if err != nil {
		errutil.LogError(s.logger, "registration failed", err)
		return nil, "", oops.Code("AUTH_REGISTRATION_FAILED").
			With("kind", string(reg.Kind())).
			Wrap(err)
	}

	_, token, err := s.establish(ctx, account.Username)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("account registered", "username", account.Username, "kind", string(account.Kind))
	return account, token, nil
}

// Login authenticates an identity and establishes a session.
// Returns the session token on success.
// Uses constant-time operations to prevent timing-based username enumeration.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, string, error) {
	account, lookupErr := s.accounts.GetByUsername(ctx, username)

	// Determine which hash to verify against (real or dummy for timing attack prevention)
	var targetHash string
	var accountExists bool

	if lookupErr != nil {
		if errors.Is(lookupErr, ErrNotFound) {
			// Use dummy hash - still perform verification to maintain constant time
			targetHash = dummyPasswordHash
			accountExists = false
		} else {
			return nil, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get account by username").
				Wrap(lookupErr)
		}
	} else {
		targetHash = account.PasswordHash
		accountExists = true
	}

	// Always verify password (constant-time operation for timing attack prevention)
	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		// For dummy hash verification errors, just treat as invalid
		if !accountExists {
			return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid username or password")
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	// Unknown username and wrong password produce the identical error
	if !accountExists || !valid {
		return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid username or password")
	}

	session, token, err := s.establish(ctx, account.Username)
	if err != nil {
		return nil, "", err
	}

	return session, token, nil
}

// establish generates a fresh token and persists a session bound to username.
func (s *Service) establish(ctx context.Context, username string) (*Session, string, error) {
	token, tokenHash, err := GenerateSessionToken()
	if err != nil {
		return nil, "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "generate session token").
			Wrap(err)
	}

	session, err := NewSession(username, tokenHash)
	if err != nil {
		return nil, "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "create session").
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}

	return session, token, nil
}

// Logout destroys the session for the given token. Destroying an
// already-absent session is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteByTokenHash(ctx, HashSessionToken(token)); err != nil {
		return oops.Code("AUTH_LOGOUT_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	return nil
}

// Resolve validates a session token and returns the session if one
// exists. Also updates the LastSeenAt timestamp.
func (s *Service) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, oops.Code("SESSION_TOKEN_EMPTY").Errorf("session token cannot be empty")
	}

	tokenHash := HashSessionToken(token)

	session, err := s.sessions.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("SESSION_INVALID").Errorf("invalid session token")
		}
		return nil, oops.Code("SESSION_RESOLVE_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}

	// Update last seen timestamp (non-blocking, ignore errors)
	now := time.Now()
	_ = s.sessions.UpdateLastSeen(ctx, session.ID, now) //nolint:errcheck // Best effort, resolution succeeds regardless

	return session, nil
}

// AffiliateEmails returns every affiliate profile's email address.
func (s *Service) AffiliateEmails(ctx context.Context) ([]string, error) {
	emails, err := s.accounts.ListAffiliateEmails(ctx)
	if err != nil {
		return nil, oops.Code("AUTH_EXPORT_FAILED").
			With("operation", "list affiliate emails").
			Wrap(err)
	}
	return emails, nil
}
