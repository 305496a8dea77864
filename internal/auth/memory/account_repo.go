// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

// Package memory provides in-memory repository implementations, used in
// tests and single-process development setups.
package memory

import (
	"context"
	"sync"

	"github.com/samber/oops"

	"github.com/linguaviva/linguaviva/internal/auth"
)

// AccountRepository implements auth.AccountRepository with a mutex-guarded map.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]auth.Account
	profiles map[string]auth.AffiliateProfile
}

// NewAccountRepository creates an empty AccountRepository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]auth.Account),
		profiles: make(map[string]auth.AffiliateProfile),
	}
}

// Create satisfies auth.AccountRepository. The existence check and the
// insert happen under one lock, so concurrent registrations of the same
// username cannot both succeed.
func (r *AccountRepository) Create(_ context.Context, account *auth.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(account)
}

// CreateAffiliate satisfies auth.AccountRepository. Account and profile
// are written under one lock; a profile failure leaves no orphan account.
func (r *AccountRepository) CreateAffiliate(_ context.Context, account *auth.Account, profile *auth.AffiliateProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := profile.Validate(); err != nil {
		return err
	}
	if err := r.createLocked(account); err != nil {
		return err
	}
	r.profiles[profile.Username] = *profile
	return nil
}

// CreateProfile satisfies auth.AccountRepository.
func (r *AccountRepository) CreateProfile(_ context.Context, profile *auth.AffiliateProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[profile.Username]; !ok {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("username", profile.Username).
			Wrap(auth.ErrUnknownIdentity)
	}
	r.profiles[profile.Username] = *profile
	return nil
}

// GetByUsername satisfies auth.AccountRepository.
func (r *AccountRepository) GetByUsername(_ context.Context, username string) (*auth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[username]
	if !ok {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("username", username).
			Wrap(auth.ErrNotFound)
	}
	return &account, nil
}

// ListAffiliateEmails satisfies auth.AccountRepository.
func (r *AccountRepository) ListAffiliateEmails(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emails := make([]string, 0, len(r.profiles))
	for _, p := range r.profiles {
		emails = append(emails, p.Email)
	}
	return emails, nil
}

func (r *AccountRepository) createLocked(account *auth.Account) error {
	if _, ok := r.accounts[account.Username]; ok {
		return oops.Code("ACCOUNT_DUPLICATE").
			With("username", account.Username).
			Wrap(auth.ErrDuplicateIdentity)
	}
	r.accounts[account.Username] = *account
	return nil
}

var _ auth.AccountRepository = (*AccountRepository)(nil)
