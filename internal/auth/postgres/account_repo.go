// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/linguaviva/linguaviva/internal/auth"
)

// AccountRepository implements auth.AccountRepository using PostgreSQL.
//
// Uniqueness of the username rides on the accounts_username_key
// constraint, so the check and the insert are one atomic unit; the
// repository never does a look-then-insert dance.
type AccountRepository struct {
	pool poolIface
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool poolIface) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create stores a new account.
func (r *AccountRepository) Create(ctx context.Context, account *auth.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, username, password_hash, kind, affiliation_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		account.ID.String(),
		account.Username,
		account.PasswordHash,
		string(account.Kind),
		account.AffiliationCode,
		account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("ACCOUNT_DUPLICATE").
				With("username", account.Username).
				Wrap(auth.ErrDuplicateIdentity)
		}
		return oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "insert account").
			With("username", account.Username).
			Wrap(err)
	}
	return nil
}

// CreateAffiliate stores an account and its profile in one transaction.
func (r *AccountRepository) CreateAffiliate(ctx context.Context, account *auth.Account, profile *auth.AffiliateProfile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "begin transaction").
			Wrap(err)
	}
	defer func() { _ = tx.Rollback(ctx) }() //nolint:errcheck // Rollback after commit is a no-op

	_, err = tx.Exec(ctx, `
		INSERT INTO accounts (id, username, password_hash, kind, affiliation_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		account.ID.String(),
		account.Username,
		account.PasswordHash,
		string(account.Kind),
		account.AffiliationCode,
		account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("ACCOUNT_DUPLICATE").
				With("username", account.Username).
				Wrap(auth.ErrDuplicateIdentity)
		}
		return oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "insert account").
			With("username", account.Username).
			Wrap(err)
	}

	if err := insertProfile(ctx, tx, profile); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "commit transaction").
			With("username", account.Username).
			Wrap(err)
	}
	return nil
}

// CreateProfile stores a profile for an existing affiliate account.
func (r *AccountRepository) CreateProfile(ctx context.Context, profile *auth.AffiliateProfile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return oops.Code("PROFILE_CREATE_FAILED").
			With("operation", "begin transaction").
			Wrap(err)
	}
	defer func() { _ = tx.Rollback(ctx) }() //nolint:errcheck // Rollback after commit is a no-op

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1 AND kind = 'affiliate')
	`, profile.Username).Scan(&exists)
	if err != nil {
		return oops.Code("PROFILE_CREATE_FAILED").
			With("operation", "check account exists").
			With("username", profile.Username).
			Wrap(err)
	}
	if !exists {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("username", profile.Username).
			Wrap(auth.ErrUnknownIdentity)
	}

	if err := insertProfile(ctx, tx, profile); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.Code("PROFILE_CREATE_FAILED").
			With("operation", "commit transaction").
			With("username", profile.Username).
			Wrap(err)
	}
	return nil
}

// GetByUsername retrieves an account by username. The lookup is
// case-sensitive; identities differ by case.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*auth.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, kind, affiliation_code, created_at
		FROM accounts
		WHERE username = $1
	`, username)

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("username", username).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_USERNAME_FAILED").
			With("operation", "get account by username").
			With("username", username).
			Wrap(err)
	}
	return account, nil
}

// ListAffiliateEmails returns every affiliate profile's email.
func (r *AccountRepository) ListAffiliateEmails(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT email FROM affiliate_profiles`)
	if err != nil {
		return nil, oops.Code("PROFILE_LIST_EMAILS_FAILED").
			With("operation", "query affiliate emails").
			Wrap(err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, oops.Code("PROFILE_LIST_EMAILS_FAILED").
				With("operation", "scan email row").
				Wrap(err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("PROFILE_LIST_EMAILS_FAILED").
			With("operation", "iterate email rows").
			Wrap(err)
	}
	return emails, nil
}

func insertProfile(ctx context.Context, tx pgx.Tx, profile *auth.AffiliateProfile) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO affiliate_profiles (
			username, first_name, last_name, email, phone_number,
			referral_source, motivation, expectations, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		profile.Username,
		profile.FirstName,
		profile.LastName,
		profile.Email,
		profile.PhoneNumber,
		profile.ReferralSource,
		profile.Motivation,
		profile.Expectations,
		profile.CreatedAt,
	)
	if err != nil {
		return oops.Code("PROFILE_CREATE_FAILED").
			With("operation", "insert profile").
			With("username", profile.Username).
			Wrap(err)
	}
	return nil
}

// scanAccount scans a single row into an Account.
// Callers are responsible for handling pgx.ErrNoRows.
func scanAccount(row pgx.Row) (*auth.Account, error) {
	var (
		idStr        string
		username     string
		passwordHash string
		kindStr      string
		code         *string
	)

	account := &auth.Account{}
	err := row.Scan(
		&idStr,
		&username,
		&passwordHash,
		&kindStr,
		&code,
		&account.CreatedAt,
	)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("ACCOUNT_SCAN_FAILED").
			With("operation", "scan account").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ACCOUNT_INVALID_ID").
			With("operation", "parse account id").
			With("id", idStr).
			Wrap(err)
	}

	account.ID = id
	account.Username = username
	account.PasswordHash = passwordHash
	account.Kind = auth.Kind(kindStr)
	account.AffiliationCode = code
	return account, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

var _ auth.AccountRepository = (*AccountRepository)(nil)
