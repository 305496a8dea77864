// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linguaviva/linguaviva/pkg/errutil"
)

func completeProfile() *AffiliateProfile {
	return &AffiliateProfile{
		Username:       "bob",
		FirstName:      "Bob",
		LastName:       "Rossi",
		Email:          "bob@example.com",
		PhoneNumber:    "+39 055 000000",
		ReferralSource: "a friend",
		Motivation:     "heritage",
		Expectations:   "conversational fluency",
		CreatedAt:      time.Now(),
	}
}

func TestAffiliateProfileValidate_Complete(t *testing.T) {
	require.NoError(t, completeProfile().Validate())
}

func TestAffiliateProfileValidate_MissingFields(t *testing.T) {
	tests := []struct {
		field string
		blank func(*AffiliateProfile)
	}{
		{"username", func(p *AffiliateProfile) { p.Username = "" }},
		{"first_name", func(p *AffiliateProfile) { p.FirstName = "" }},
		{"last_name", func(p *AffiliateProfile) { p.LastName = "" }},
		{"email", func(p *AffiliateProfile) { p.Email = "" }},
		{"phone_number", func(p *AffiliateProfile) { p.PhoneNumber = "" }},
		{"referral_source", func(p *AffiliateProfile) { p.ReferralSource = "" }},
		{"motivation", func(p *AffiliateProfile) { p.Motivation = "" }},
		{"expectations", func(p *AffiliateProfile) { p.Expectations = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			profile := completeProfile()
			tt.blank(profile)

			err := profile.Validate()
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "PROFILE_MISSING_FIELD")
			errutil.AssertErrorContext(t, err, "field", tt.field)
		})
	}
}
