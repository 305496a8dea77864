// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

// Package web contains the HTTP front-end.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"

	"github.com/linguaviva/linguaviva/internal/access"
	"github.com/linguaviva/linguaviva/internal/config"
	"github.com/linguaviva/linguaviva/internal/observability"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Server timeouts.
const (
	readHeaderTimeout = 1 * time.Second
	readTimeout       = 5 * time.Second
	writeTimeout      = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// renderer adapts html/template to echo's Renderer interface.
type renderer struct {
	templates *template.Template
}

func (r *renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	//nolint:wrapcheck // Renderer interface requires unwrapped error passthrough
	return r.templates.ExecuteTemplate(w, name, data)
}

// New creates the web front-end server. metrics may be nil, in which
// case no counters are recorded.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	resolver access.SessionResolver,
	svc AuthService,
	gate *access.Gate,
	metrics *observability.Metrics,
) (*echo.Echo, error) {
	srv := echo.New()

	srv.HideBanner = true
	srv.HidePort = true
	srv.Logger.SetLevel(log.OFF)

	templates, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}
	srv.Renderer = &renderer{templates: templates}

	h := &handler{
		svc:        svc,
		cookieName: cfg.Server.CookieName,
		logger:     logger,
		metrics:    metrics,
	}

	srv.Use(
		middleware.Recover(),
		middleware.Secure(),
		middleware.RequestID(),
		logRequests(logger),
		resolveSession(resolver, cfg.Server.CookieName),
		requireSession(gate),
	)

	h.register(srv)
	return srv, nil
}

// Serve runs the server on addr until ctx is cancelled, then shuts it
// down gracefully.
func Serve(ctx context.Context, srv *echo.Echo, addr string) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}

	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		err := httpSrv.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	grp.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return grp.Wait()
}

func logRequests(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("uri", req.RequestURI),
				slog.String("route", c.Path()),
				slog.Duration("latency", latency),
				slog.Int("status", res.Status),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			logger.LogAttrs(
				req.Context(),
				slog.LevelDebug,
				"request handled",
				attrs...,
			)
			return err
		}
	}
}
