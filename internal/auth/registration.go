// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package auth

import (
	"time"

	"github.com/samber/oops"
)

// Registration is the closed set of registration requests, one variant
// per account kind. Each variant carries only the fields meaningful for
// its kind, so "required fields for this kind" is enforced by the type.
type Registration interface {
	// Kind returns the account kind this registration produces.
	Kind() Kind

	// Validate checks consent and the kind-specific required fields.
	// It never touches storage.
	Validate() error

	credentials() (username, password string)
}

// PrimaryRegistration registers a primary account. The affiliation code
// is optional.
type PrimaryRegistration struct {
	Username        string
	Password        string
	AffiliationCode string
	Consent         bool
}

// Kind satisfies Registration.
func (r PrimaryRegistration) Kind() Kind { return KindPrimary }

// Validate satisfies Registration.
func (r PrimaryRegistration) Validate() error {
	return validateCommon(r.Username, r.Password, r.Consent)
}

func (r PrimaryRegistration) credentials() (string, string) {
	return r.Username, r.Password
}

// AffiliateRegistration registers an affiliate account together with its
// mandatory profile.
type AffiliateRegistration struct {
	Username       string
	Password       string
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	ReferralSource string
	Motivation     string
	Expectations   string
	Consent        bool
}

// Kind satisfies Registration.
func (r AffiliateRegistration) Kind() Kind { return KindAffiliate }

// Validate satisfies Registration.
func (r AffiliateRegistration) Validate() error {
	if err := validateCommon(r.Username, r.Password, r.Consent); err != nil {
		return err
	}
	return r.profile().Validate()
}

func (r AffiliateRegistration) credentials() (string, string) {
	return r.Username, r.Password
}

// profile builds the AffiliateProfile this registration describes.
func (r AffiliateRegistration) profile() *AffiliateProfile {
	return &AffiliateProfile{
		Username:       r.Username,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		PhoneNumber:    r.PhoneNumber,
		ReferralSource: r.ReferralSource,
		Motivation:     r.Motivation,
		Expectations:   r.Expectations,
		CreatedAt:      time.Now(),
	}
}

func validateCommon(username, password string, consent bool) error {
	if !consent {
		return oops.Code("AUTH_CONSENT_REQUIRED").Errorf("consent to data processing is required")
	}
	if username == "" {
		return oops.Code("AUTH_VALIDATION_FAILED").
			With("field", "username").
			Errorf("username is required")
	}
	if password == "" {
		return oops.Code("AUTH_VALIDATION_FAILED").
			With("field", "password").
			Errorf("password is required")
	}
	return nil
}
