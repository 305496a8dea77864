// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linguaviva/linguaviva/internal/access"
	"github.com/linguaviva/linguaviva/internal/auth"
)

// sessionContextKey is the echo context key holding the resolved session.
const sessionContextKey = "linguaviva.session"

// resolveSession reads the session cookie and, when the token resolves,
// stores the session on the request context. Unknown or stale tokens are
// treated the same as no cookie; the gate decides what happens next.
func resolveSession(resolver access.SessionResolver, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			session, err := resolver.Resolve(c.Request().Context(), cookie.Value)
			if err != nil {
				return next(c)
			}

			c.Set(sessionContextKey, session)
			return next(c)
		}
	}
}

// requireSession redirects unauthenticated requests for gated routes to
// the login page.
func requireSession(gate *access.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !gate.Protected(c.Request().URL.Path) {
				return next(c)
			}
			if currentSession(c) == nil {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}

// currentSession returns the session resolved for this request, or nil.
func currentSession(c echo.Context) *auth.Session {
	session, _ := c.Get(sessionContextKey).(*auth.Session)
	return session
}
