// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateIdentity is returned when an account with the same username
// already exists. The Service never exposes this distinction to callers;
// it is collapsed into the generic registration-failed outcome.
var ErrDuplicateIdentity = errors.New("identity already exists")

// ErrUnknownIdentity is returned when a profile write references an
// account that does not exist. With atomic affiliate registration this
// indicates an integrity bug, not a user error.
var ErrUnknownIdentity = errors.New("identity does not exist")
