// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaviva/linguaviva/internal/auth"
	"github.com/linguaviva/linguaviva/internal/auth/memory"
)

func newAccount(t *testing.T, username string, kind auth.Kind) *auth.Account {
	t.Helper()
	account, err := auth.NewAccount(username, "$argon2id$hash", kind, nil)
	require.NoError(t, err)
	return account
}

func newProfile(username string) *auth.AffiliateProfile {
	return &auth.AffiliateProfile{
		Username:       username,
		FirstName:      "Bob",
		LastName:       "Rossi",
		Email:          username + "@example.com",
		PhoneNumber:    "+39 055 000000",
		ReferralSource: "a friend",
		Motivation:     "heritage",
		Expectations:   "conversational fluency",
		CreatedAt:      time.Now(),
	}
}

func TestAccountRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository()

	account := newAccount(t, "alice", auth.KindPrimary)
	require.NoError(t, repo.Create(ctx, account))

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
	assert.Equal(t, account.PasswordHash, got.PasswordHash)
}

func TestAccountRepository_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository()

	require.NoError(t, repo.Create(ctx, newAccount(t, "alice", auth.KindPrimary)))

	err := repo.Create(ctx, newAccount(t, "alice", auth.KindPrimary))
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrDuplicateIdentity)
}

func TestAccountRepository_CaseSensitiveUsernames(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository()

	require.NoError(t, repo.Create(ctx, newAccount(t, "alice", auth.KindPrimary)))
	require.NoError(t, repo.Create(ctx, newAccount(t, "Alice", auth.KindPrimary)))

	lower, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	upper, err := repo.GetByUsername(ctx, "Alice")
	require.NoError(t, err)
	assert.NotEqual(t, lower.ID, upper.ID)
}

func TestAccountRepository_GetUnknown(t *testing.T) {
	repo := memory.NewAccountRepository()

	_, err := repo.GetByUsername(context.Background(), "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestAccountRepository_CreateAffiliate(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository()

	account := newAccount(t, "bob", auth.KindAffiliate)
	require.NoError(t, repo.CreateAffiliate(ctx, account, newProfile("bob")))

	emails, err := repo.ListAffiliateEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob@example.com"}, emails)
}

func TestAccountRepository_CreateAffiliateInvalidProfileLeavesNoAccount(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository()

	account := newAccount(t, "bob", auth.KindAffiliate)
	profile := newProfile("bob")
	profile.Email = ""

	err := repo.CreateAffiliate(ctx, account, profile)
	require.Error(t, err)

	_, err = repo.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestAccountRepository_CreateAffiliateDuplicateLeavesNoProfile(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository()

	require.NoError(t, repo.CreateAffiliate(ctx, newAccount(t, "bob", auth.KindAffiliate), newProfile("bob")))

	err := repo.CreateAffiliate(ctx, newAccount(t, "bob", auth.KindAffiliate), newProfile("bob"))
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrDuplicateIdentity)

	emails, err := repo.ListAffiliateEmails(ctx)
	require.NoError(t, err)
	assert.Len(t, emails, 1)
}

func TestAccountRepository_CreateProfile(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository()

	require.NoError(t, repo.Create(ctx, newAccount(t, "bob", auth.KindAffiliate)))
	require.NoError(t, repo.CreateProfile(ctx, newProfile("bob")))

	emails, err := repo.ListAffiliateEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob@example.com"}, emails)
}

func TestAccountRepository_CreateProfileUnknownAccount(t *testing.T) {
	repo := memory.NewAccountRepository()

	err := repo.CreateProfile(context.Background(), newProfile("ghost"))
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrUnknownIdentity)
}

func TestAccountRepository_ListAffiliateEmailsEmpty(t *testing.T) {
	repo := memory.NewAccountRepository()

	emails, err := repo.ListAffiliateEmails(context.Background())
	require.NoError(t, err)
	assert.Empty(t, emails)
}

func TestAccountRepository_ConcurrentCreateSameUsername(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository()

	const attempts = 20
	accounts := make([]*auth.Account, attempts)
	for i := range attempts {
		accounts[i] = newAccount(t, "alice", auth.KindPrimary)
	}

	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = repo.Create(ctx, accounts[i])
		}()
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, auth.ErrDuplicateIdentity)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent create should win")
}
