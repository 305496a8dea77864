// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/oops"

	"github.com/linguaviva/linguaviva/internal/auth"
	"github.com/linguaviva/linguaviva/internal/observability"
	"github.com/linguaviva/linguaviva/pkg/errutil"
)

// AuthService is the part of the auth service the handlers need.
type AuthService interface {
	Register(ctx context.Context, reg auth.Registration) (*auth.Account, string, error)
	Login(ctx context.Context, username, password string) (*auth.Session, string, error)
	Logout(ctx context.Context, token string) error
	AffiliateEmails(ctx context.Context) ([]string, error)
}

type handler struct {
	svc        AuthService
	cookieName string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

func (h *handler) register(e *echo.Echo) {
	e.GET("/", h.home)
	e.GET("/register", h.registerForm)
	e.POST("/register", h.registerSubmit)
	e.GET("/login", h.loginForm)
	e.POST("/login", h.loginSubmit)
	e.GET("/logout", h.logout)
	e.GET("/video-audio", h.videoAudio)
	e.GET("/profile", h.profile)
	e.GET("/tasks", h.tasks)
	e.GET("/privacy-policy", h.privacyPolicy)
	e.GET("/export-emails", h.exportEmails)
}

// registerForm maps the original form field names onto a registration.
// The userType values "client" and "visitor" come from the public form
// and map to the primary and affiliate kinds.
type registerForm struct {
	Username        string `form:"username" json:"username"`
	Password        string `form:"password" json:"password"`
	UserType        string `form:"userType" json:"userType"`
	Code            string `form:"code" json:"code"`
	FirstName       string `form:"firstName" json:"firstName"`
	LastName        string `form:"lastName" json:"lastName"`
	Email           string `form:"email" json:"email"`
	PhoneNumber     string `form:"phoneNumber" json:"phoneNumber"`
	HowDidYouHear   string `form:"howDidYouHear" json:"howDidYouHear"`
	WhyLearnItalian string `form:"whyLearnItalian" json:"whyLearnItalian"`
	Expectations    string `form:"expectations" json:"expectations"`
	// Checkboxes submit "on"; JSON clients send true. Bound as a string
	// so both forms work.
	Consent string `form:"consent" json:"consent"`
}

func (f registerForm) consented() bool {
	switch f.Consent {
	case "on", "true", "1":
		return true
	}
	return false
}

// registration builds the typed registration for the submitted userType.
func (f registerForm) registration() (auth.Registration, error) {
	switch f.UserType {
	case "client":
		return auth.PrimaryRegistration{
			Username:        f.Username,
			Password:        f.Password,
			AffiliationCode: f.Code,
			Consent:         f.consented(),
		}, nil
	case "visitor":
		return auth.AffiliateRegistration{
			Username:       f.Username,
			Password:       f.Password,
			FirstName:      f.FirstName,
			LastName:       f.LastName,
			Email:          f.Email,
			PhoneNumber:    f.PhoneNumber,
			ReferralSource: f.HowDidYouHear,
			Motivation:     f.WhyLearnItalian,
			Expectations:   f.Expectations,
			Consent:        f.consented(),
		}, nil
	default:
		return nil, oops.Code("AUTH_UNKNOWN_USER_TYPE").
			With("user_type", f.UserType).
			Errorf("userType must be 'client' or 'visitor'")
	}
}

type loginForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

func (h *handler) home(c echo.Context) error {
	data := map[string]any{}
	if session := currentSession(c); session != nil {
		data["Username"] = session.Username
	}
	return c.Render(http.StatusOK, "home.html", data)
}

func (h *handler) registerForm(c echo.Context) error {
	userType := c.QueryParam("userType")
	if userType != "visitor" {
		userType = "client"
	}
	return c.Render(http.StatusOK, "register.html", map[string]any{
		"UserType": userType,
	})
}

func (h *handler) registerSubmit(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return c.Render(http.StatusBadRequest, "register.html", map[string]any{
			"UserType": form.UserType,
			"Error":    "Could not read the registration form.",
		})
	}

	reg, err := form.registration()
	if err != nil {
		return c.Render(http.StatusBadRequest, "register.html", map[string]any{
			"UserType": form.UserType,
			"Error":    "Please choose a registration type.",
		})
	}

	account, token, err := h.svc.Register(c.Request().Context(), reg)
	if err != nil {
		return h.registerFailed(c, form.UserType, string(reg.Kind()), err)
	}

	h.recordRegistration(string(account.Kind), "success")
	h.sessionStarted()
	h.setSessionCookie(c, token)
	return c.Redirect(http.StatusSeeOther, "/")
}

// registerFailed renders the failure page for a registration error.
// Validation problems come back as 400 with a hint; every storage
// failure is the one opaque code and renders the generic 500 page, so
// the response never reveals whether a username is taken.
func (h *handler) registerFailed(c echo.Context, userType, kind string, err error) error {
	h.recordRegistration(kind, "failure")

	switch errCode(err) {
	case "AUTH_CONSENT_REQUIRED":
		return c.Render(http.StatusBadRequest, "register.html", map[string]any{
			"UserType": userType,
			"Error":    "You must consent to the processing of your data.",
		})
	case "AUTH_VALIDATION_FAILED", "PROFILE_MISSING_FIELD":
		return c.Render(http.StatusBadRequest, "register.html", map[string]any{
			"UserType": userType,
			"Error":    "Please fill in all required fields.",
		})
	default:
		errutil.LogError(h.logger, "registration failed", err)
		return c.Render(http.StatusInternalServerError, "error.html", map[string]any{
			"Title":   "Registration failed",
			"Message": "We could not complete your registration. Please try again.",
		})
	}
}

func (h *handler) loginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", map[string]any{})
}

func (h *handler) loginSubmit(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return c.Render(http.StatusBadRequest, "login.html", map[string]any{
			"Error": "Could not read the login form.",
		})
	}

	_, token, err := h.svc.Login(c.Request().Context(), form.Username, form.Password)
	if err != nil {
		if errCode(err) == "AUTH_INVALID_CREDENTIALS" {
			h.recordLogin("failure")
			return c.Render(http.StatusUnauthorized, "login.html", map[string]any{
				"Error": "Invalid username or password.",
			})
		}
		h.recordLogin("error")
		errutil.LogError(h.logger, "login failed", err)
		return c.Render(http.StatusInternalServerError, "error.html", map[string]any{
			"Title":   "Login failed",
			"Message": "Something went wrong. Please try again.",
		})
	}

	h.recordLogin("success")
	h.sessionStarted()
	h.setSessionCookie(c, token)
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *handler) logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		if err := h.svc.Logout(c.Request().Context(), cookie.Value); err != nil {
			// The cookie is cleared regardless; log and continue.
			errutil.LogWarn(h.logger, "logout failed", err)
		} else {
			h.sessionEnded()
		}
		if h.metrics != nil {
			h.metrics.LogoutsTotal.Inc()
		}
	}
	h.clearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *handler) videoAudio(c echo.Context) error {
	return h.gatedPage(c, "video_audio.html")
}

func (h *handler) profile(c echo.Context) error {
	return h.gatedPage(c, "profile.html")
}

func (h *handler) tasks(c echo.Context) error {
	return h.gatedPage(c, "tasks.html")
}

// gatedPage renders a page that the gate guarantees has a session.
func (h *handler) gatedPage(c echo.Context, name string) error {
	session := currentSession(c)
	if session == nil {
		// Only reachable if the route is missing from the gate config.
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return c.Render(http.StatusOK, name, map[string]any{
		"Username": session.Username,
	})
}

func (h *handler) privacyPolicy(c echo.Context) error {
	return c.Render(http.StatusOK, "privacy_policy.html", map[string]any{})
}

func (h *handler) exportEmails(c echo.Context) error {
	emails, err := h.svc.AffiliateEmails(c.Request().Context())
	if err != nil {
		errutil.LogError(h.logger, "email export failed", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "export failed")
	}
	if emails == nil {
		emails = []string{}
	}
	return c.JSON(http.StatusOK, emails)
}

func (h *handler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *handler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (h *handler) recordRegistration(kind, status string) {
	if h.metrics != nil {
		h.metrics.RegistrationsTotal.WithLabelValues(kind, status).Inc()
	}
}

func (h *handler) recordLogin(status string) {
	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues(status).Inc()
	}
}

func (h *handler) sessionStarted() {
	if h.metrics != nil {
		h.metrics.SessionsActive.Inc()
	}
}

func (h *handler) sessionEnded() {
	if h.metrics != nil {
		h.metrics.SessionsActive.Dec()
	}
}

// errCode extracts the oops error code, or "" for plain errors.
func errCode(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Code()
	}
	return ""
}
