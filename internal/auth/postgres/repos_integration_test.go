// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/linguaviva/linguaviva/internal/auth"
	"github.com/linguaviva/linguaviva/internal/auth/postgres"
	"github.com/linguaviva/linguaviva/internal/store"
)

// setupDatabase starts a PostgreSQL container and applies the schema.
func setupDatabase() (*pgxpool.Pool, func(), error) {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:16-alpine",
		pgcontainer.WithDatabase("linguaviva_test"),
		pgcontainer.WithUsername("linguaviva"),
		pgcontainer.WithPassword("linguaviva"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, nil, err
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		return nil, nil, err
	}
	if err := migrator.Up(); err != nil {
		return nil, nil, err
	}
	if err := migrator.Close(); err != nil {
		return nil, nil, err
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}

	return pool, cleanup, nil
}

var _ = Describe("AccountRepository", func() {
	var pool *pgxpool.Pool
	var cleanup func()
	var repo *postgres.AccountRepository

	BeforeEach(func() {
		var err error
		pool, cleanup, err = setupDatabase()
		Expect(err).NotTo(HaveOccurred())
		repo = postgres.NewAccountRepository(pool)
	})

	AfterEach(func() {
		cleanup()
	})

	Describe("Create", func() {
		It("stores a primary account and reads it back", func() {
			ctx := context.Background()
			account, err := auth.NewAccount("alice", "hash-value", auth.KindPrimary, nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.Create(ctx, account)).To(Succeed())

			got, err := repo.GetByUsername(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Username).To(Equal("alice"))
			Expect(got.Kind).To(Equal(auth.KindPrimary))
			Expect(got.PasswordHash).To(Equal("hash-value"))
		})

		It("rejects a duplicate username", func() {
			ctx := context.Background()
			first, err := auth.NewAccount("alice", "hash1", auth.KindPrimary, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.Create(ctx, first)).To(Succeed())

			second, err := auth.NewAccount("alice", "hash2", auth.KindPrimary, nil)
			Expect(err).NotTo(HaveOccurred())
			err = repo.Create(ctx, second)
			Expect(errors.Is(err, auth.ErrDuplicateIdentity)).To(BeTrue())
		})

		It("is case sensitive for usernames", func() {
			ctx := context.Background()
			lower, err := auth.NewAccount("alice", "hash1", auth.KindPrimary, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.Create(ctx, lower)).To(Succeed())

			upper, err := auth.NewAccount("Alice", "hash2", auth.KindPrimary, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.Create(ctx, upper)).To(Succeed())

			got, err := repo.GetByUsername(ctx, "Alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.PasswordHash).To(Equal("hash2"))
		})

		It("stores the affiliation code", func() {
			ctx := context.Background()
			code := "SPRING26"
			account, err := auth.NewAccount("carol", "hash", auth.KindPrimary, &code)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.Create(ctx, account)).To(Succeed())

			got, err := repo.GetByUsername(ctx, "carol")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.AffiliationCode).NotTo(BeNil())
			Expect(*got.AffiliationCode).To(Equal("SPRING26"))
		})
	})

	Describe("GetByUsername", func() {
		It("returns ErrNotFound for an unknown username", func() {
			ctx := context.Background()
			_, err := repo.GetByUsername(ctx, "nobody")
			Expect(errors.Is(err, auth.ErrNotFound)).To(BeTrue())
		})
	})

	Describe("CreateAffiliate", func() {
		var profile auth.AffiliateProfile

		BeforeEach(func() {
			profile = auth.AffiliateProfile{
				Username:       "bob",
				FirstName:      "Bob",
				LastName:       "Builder",
				Email:          "bob@example.com",
				PhoneNumber:    "+1-555-0100",
				ReferralSource: "friend",
				Motivation:     "learn languages",
				Expectations:   "weekly practice",
				CreatedAt:      time.Now(),
			}
		})

		It("stores account and profile atomically", func() {
			ctx := context.Background()
			account, err := auth.NewAccount("bob", "hash", auth.KindAffiliate, nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.CreateAffiliate(ctx, account, &profile)).To(Succeed())

			got, err := repo.GetByUsername(ctx, "bob")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Kind).To(Equal(auth.KindAffiliate))

			emails, err := repo.ListAffiliateEmails(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(emails).To(ContainElement("bob@example.com"))
		})

		It("leaves no account behind when the username is taken", func() {
			ctx := context.Background()
			existing, err := auth.NewAccount("bob", "hash0", auth.KindPrimary, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.Create(ctx, existing)).To(Succeed())

			account, err := auth.NewAccount("bob", "hash", auth.KindAffiliate, nil)
			Expect(err).NotTo(HaveOccurred())
			err = repo.CreateAffiliate(ctx, account, &profile)
			Expect(errors.Is(err, auth.ErrDuplicateIdentity)).To(BeTrue())

			// The profile insert must have rolled back with the account insert.
			emails, err := repo.ListAffiliateEmails(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(emails).To(BeEmpty())
		})
	})

	Describe("ListAffiliateEmails", func() {
		It("returns an empty slice when no affiliates exist", func() {
			ctx := context.Background()
			emails, err := repo.ListAffiliateEmails(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(emails).To(BeEmpty())
		})
	})
})

var _ = Describe("SessionRepository", func() {
	var pool *pgxpool.Pool
	var cleanup func()
	var repo *postgres.SessionRepository

	BeforeEach(func() {
		var err error
		pool, cleanup, err = setupDatabase()
		Expect(err).NotTo(HaveOccurred())
		repo = postgres.NewSessionRepository(pool)
	})

	AfterEach(func() {
		cleanup()
	})

	It("creates and resolves a session by token hash", func() {
		ctx := context.Background()
		_, hash, err := auth.GenerateSessionToken()
		Expect(err).NotTo(HaveOccurred())

		session, err := auth.NewSession("alice", hash)
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.Create(ctx, session)).To(Succeed())

		got, err := repo.GetByTokenHash(ctx, hash)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Username).To(Equal("alice"))
		Expect(got.ID).To(Equal(session.ID))
	})

	It("returns ErrNotFound for an unknown token hash", func() {
		ctx := context.Background()
		_, err := repo.GetByTokenHash(ctx, "no-such-hash")
		Expect(errors.Is(err, auth.ErrNotFound)).To(BeTrue())
	})

	It("lists sessions by username", func() {
		ctx := context.Background()
		for range 3 {
			_, hash, err := auth.GenerateSessionToken()
			Expect(err).NotTo(HaveOccurred())
			session, err := auth.NewSession("alice", hash)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.Create(ctx, session)).To(Succeed())
		}
		_, otherHash, err := auth.GenerateSessionToken()
		Expect(err).NotTo(HaveOccurred())
		other, err := auth.NewSession("bob", otherHash)
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.Create(ctx, other)).To(Succeed())

		sessions, err := repo.GetByUsername(ctx, "alice")
		Expect(err).NotTo(HaveOccurred())
		Expect(sessions).To(HaveLen(3))
	})

	It("updates last seen", func() {
		ctx := context.Background()
		_, hash, err := auth.GenerateSessionToken()
		Expect(err).NotTo(HaveOccurred())
		session, err := auth.NewSession("alice", hash)
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.Create(ctx, session)).To(Succeed())

		later := time.Now().Add(time.Hour).Truncate(time.Microsecond)
		Expect(repo.UpdateLastSeen(ctx, session.ID, later)).To(Succeed())

		got, err := repo.GetByTokenHash(ctx, hash)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.LastSeenAt.UTC()).To(BeTemporally("~", later.UTC(), time.Millisecond))
	})

	It("deletes idempotently by token hash", func() {
		ctx := context.Background()
		_, hash, err := auth.GenerateSessionToken()
		Expect(err).NotTo(HaveOccurred())
		session, err := auth.NewSession("alice", hash)
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.Create(ctx, session)).To(Succeed())

		Expect(repo.DeleteByTokenHash(ctx, hash)).To(Succeed())
		// Second delete of the same hash is not an error.
		Expect(repo.DeleteByTokenHash(ctx, hash)).To(Succeed())

		_, err = repo.GetByTokenHash(ctx, hash)
		Expect(errors.Is(err, auth.ErrNotFound)).To(BeTrue())
	})
})
