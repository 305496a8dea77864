// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

// Package errutil provides helpers for logging and asserting on
// structured errors.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs an error at error level with structured context if it's
// an oops error. For oops errors, it extracts and logs the message,
// code, and context. For standard errors, it logs the error string.
func LogError(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, attrs(err)...)
}

// LogWarn logs an error at warn level with the same extraction rules as
// LogError. Used for best-effort operations whose failure does not fail
// the request.
func LogWarn(logger *slog.Logger, msg string, err error) {
	logger.Warn(msg, attrs(err)...)
}

func attrs(err error) []any {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return []any{"error", err}
	}
	out := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != "" {
		out = append(out, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		out = append(out, "context", ctx)
	}
	return out
}
