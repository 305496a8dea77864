// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package auth

import (
	"time"

	"github.com/samber/oops"
)

// AffiliateProfile holds the contact and intake data collected for
// affiliate accounts. It shares its username with exactly one Account of
// kind affiliate and is written atomically alongside it.
type AffiliateProfile struct {
	Username       string
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	ReferralSource string
	Motivation     string
	Expectations   string
	CreatedAt      time.Time
}

// Validate checks that every mandatory field is present.
func (p *AffiliateProfile) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"username", p.Username},
		{"first_name", p.FirstName},
		{"last_name", p.LastName},
		{"email", p.Email},
		{"phone_number", p.PhoneNumber},
		{"referral_source", p.ReferralSource},
		{"motivation", p.Motivation},
		{"expectations", p.Expectations},
	}
	for _, f := range fields {
		if f.value == "" {
			return oops.Code("PROFILE_MISSING_FIELD").
				With("field", f.name).
				Errorf("profile field %s is required", f.name)
		}
	}
	return nil
}
