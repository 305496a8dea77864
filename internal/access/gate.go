// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

// Package access decides which routes require an authenticated session.
package access

import (
	"context"

	"github.com/gobwas/glob"
	"github.com/samber/oops"

	"github.com/linguaviva/linguaviva/internal/auth"
)

// SessionResolver resolves a session token to the session it identifies.
// Implementations return an error with code "SESSION_INVALID" when the
// token does not match a live session, and other errors for
// store/infrastructure failures.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Session, error)
}

// compiledPattern holds a route pattern and its compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Gate matches request paths against the configured protected-route
// patterns. Patterns use glob syntax with '/' as the separator, so
// "/admin/*" matches "/admin/users" but not "/admin/users/1".
//
// Thread-safety: patterns are immutable after construction and require
// no synchronization.
type Gate struct {
	patterns []compiledPattern
}

// NewGate compiles the given route patterns.
// Returns an error if any pattern fails to compile (invalid glob syntax).
func NewGate(patterns []string) (*Gate, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, oops.In("access").
				Code("INVALID_ROUTE_PATTERN").
				With("pattern", p).
				Wrap(err)
		}
		compiled = append(compiled, compiledPattern{pattern: p, glob: g})
	}
	return &Gate{patterns: compiled}, nil
}

// Protected reports whether the given request path requires a session.
func (g *Gate) Protected(path string) bool {
	for _, p := range g.patterns {
		if p.glob.Match(path) {
			return true
		}
	}
	return false
}

// Patterns returns the configured patterns in their original form.
func (g *Gate) Patterns() []string {
	out := make([]string, len(g.patterns))
	for i, p := range g.patterns {
		out[i] = p.pattern
	}
	return out
}
