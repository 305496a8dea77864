// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

// Package auth provides the credential and session subsystem for LinguaViva.
//
// # Domain Types
//
// Domain types (Account, AffiliateProfile, Session) should be created
// using their respective constructors:
//   - NewAccount - creates an Account from a validated registration
//   - NewSession - creates a Session bound to an existing identity
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors.
//
// # Registrations
//
// The two registrable account kinds are closed variants: a
// PrimaryRegistration carries only the affiliation code, an
// AffiliateRegistration carries the mandatory profile fields. Required
// fields per kind are enforced by the variant type, not by runtime
// string switching.
//
// # Service
//
// Service coordinates registration, login, logout and session resolution.
// It is created with NewService, which validates dependencies.
package auth
