// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Kind is the closed set of registrable account kinds.
type Kind string

// The two account kinds. Primary accounts carry an optional affiliation
// code; affiliate accounts carry a mandatory AffiliateProfile.
const (
	KindPrimary   Kind = "primary"
	KindAffiliate Kind = "affiliate"
)

// Valid reports whether k is one of the two known kinds.
func (k Kind) Valid() bool {
	return k == KindPrimary || k == KindAffiliate
}

// Account represents a registered account. The username is the unique,
// case-sensitive identity. PasswordHash is the argon2id hash; the
// plaintext secret is never stored and never logged.
type Account struct {
	ID              ulid.ULID
	Username        string
	PasswordHash    string
	Kind            Kind
	AffiliationCode *string
	CreatedAt       time.Time
}

// NewAccount creates a validated Account. The passwordHash must already
// be produced by a PasswordHasher; this constructor refuses anything
// that looks like a plaintext secret slipping through.
func NewAccount(username, passwordHash string, kind Kind, affiliationCode *string) (*Account, error) {
	if username == "" {
		return nil, oops.Code("ACCOUNT_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code("ACCOUNT_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	if !kind.Valid() {
		return nil, oops.Code("ACCOUNT_INVALID_KIND").
			With("kind", string(kind)).
			Errorf("unknown account kind")
	}
	if kind != KindPrimary && affiliationCode != nil {
		return nil, oops.Code("ACCOUNT_INVALID_KIND").
			Errorf("affiliation code is only meaningful for primary accounts")
	}

	return &Account{
		ID:              ulid.Make(),
		Username:        username,
		PasswordHash:    passwordHash,
		Kind:            kind,
		AffiliationCode: affiliationCode,
		CreatedAt:       time.Now(),
	}, nil
}

// AccountRepository manages account persistence.
//
// The uniqueness check and the insert are one atomic unit: under
// concurrent registrations with the same username exactly one Create
// succeeds and the other observes ErrDuplicateIdentity.
type AccountRepository interface {
	// Create stores a new account. Returns ErrDuplicateIdentity (wrapped)
	// if the username is already taken.
	Create(ctx context.Context, account *Account) error

	// CreateAffiliate stores an account and its profile as one atomic
	// unit. Either both rows exist afterwards or neither does.
	// Returns ErrDuplicateIdentity (wrapped) if the username is taken.
	CreateAffiliate(ctx context.Context, account *Account, profile *AffiliateProfile) error

	// CreateProfile stores a profile for an existing affiliate account.
	// Returns ErrUnknownIdentity (wrapped) if no such account exists.
	// Registration goes through CreateAffiliate instead; this exists for
	// repair tooling.
	CreateProfile(ctx context.Context, profile *AffiliateProfile) error

	// GetByUsername retrieves an account by username (case-sensitive).
	GetByUsername(ctx context.Context, username string) (*Account, error)

	// ListAffiliateEmails returns the email of every affiliate profile,
	// in no particular order.
	ListAffiliateEmails(ctx context.Context) ([]string, error)
}
