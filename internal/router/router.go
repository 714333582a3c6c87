// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// caresite server. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"caresite/internal/handlers"
	"caresite/internal/middleware"
)

// Handlers bundles every handler group the router mounts.
type Handlers struct {
	Admin       *handlers.Admin
	Auth        *handlers.Auth
	Public      *handlers.Public
	Settings    *handlers.Settings
	Submissions *handlers.Submissions
	Uploads     *handlers.Uploads
	Catalogs    []handlers.Mounter
}

// Options carries the router's non-handler dependencies.
type Options struct {
	Sessions     middleware.SessionLoader
	Static       fs.FS // served under /static/
	SecureCookie bool

	// FormLimiter throttles the public contact and inquiry forms;
	// LoginLimiter throttles login attempts. Either may be nil.
	FormLimiter  *middleware.RateLimiter
	LoginLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(opts.Sessions))

	r.Get("/health", healthHandler)
	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(opts.Static))))
	}
	r.Get("/render/image/{bucket}/*", h.Uploads.RenderImage)

	// Public site. Forms carry no CSRF token because the pages are cached
	// for every visitor; they are rate limited instead.
	r.Get("/", h.Public.Home)
	r.Get("/about", h.Public.About)
	r.Get("/services", h.Public.Services)
	r.Get("/services/{slug}", h.Public.Service)
	r.Get("/pricing", h.Public.Pricing)
	r.Get("/blog", h.Public.Blog)
	r.Get("/blog/{slug}", h.Public.Post)
	r.Get("/testimonials", h.Public.Testimonials)
	r.Get("/contact", h.Public.Contact)
	r.Group(func(r chi.Router) {
		if opts.FormLimiter != nil {
			r.Use(opts.FormLimiter.Middleware)
		}
		r.Post("/contact", h.Submissions.Contact)
		r.Post("/inquiry", h.Submissions.Inquiry)
	})

	// Admin routes: CSRF protected and never cached. Paths are written in
	// full because catalog admins mount their own /admin/... routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.SecureCookie))
		r.Use(middleware.NoStore)

		// Auth pages, accessible without a session.
		r.Get("/admin/login", h.Auth.LoginPage)
		r.With(limit(opts.LoginLimiter)...).Post("/admin/login", h.Auth.LoginSubmit)
		r.Post("/admin/logout", h.Auth.Logout)

		// 2FA requires a session but not a completed 2FA step.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/admin/2fa/setup", h.Auth.TwoFASetupPage)
			r.Get("/admin/2fa/verify", h.Auth.TwoFAVerifyPage)
			r.With(limit(opts.LoginLimiter)...).Post("/admin/2fa/verify", h.Auth.TwoFAVerifySubmit)
		})

		// Authenticated and 2FA-verified admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/admin", h.Admin.Dashboard)
			r.Get("/admin/dashboard", h.Admin.Dashboard)

			r.Get("/admin/home", h.Settings.HomePage)
			r.Post("/admin/home/hero", h.Settings.HeroUpdate)
			r.Post("/admin/home/why-choose-us", h.Settings.WhyChooseUsUpdate)

			r.Get("/admin/about", h.Settings.AboutPage)
			r.Get("/admin/about/content", h.Settings.AboutContentPage)
			r.Post("/admin/about/content", h.Settings.AboutContentUpdate)

			r.Get("/admin/settings", h.Settings.SettingsPage)
			r.Post("/admin/settings/contact", h.Settings.ContactUpdate)
			r.Post("/admin/settings/services-header", h.Settings.SectionHeaderUpdate)
			r.Post("/admin/settings/footer", h.Settings.FooterUpdate)

			r.Get("/admin/submissions", h.Submissions.List)
			r.Post("/admin/submissions/{kind}/{id}/status", h.Submissions.SetStatus)
			r.Delete("/admin/submissions/{kind}/{id}", h.Submissions.Delete)

			r.Post("/admin/uploads", h.Uploads.Upload)
			r.Delete("/admin/uploads", h.Uploads.Delete)

			for _, c := range h.Catalogs {
				c.Mount(r)
			}
		})
	})

	r.NotFound(h.Public.NotFound)

	return r
}

func limit(rl *middleware.RateLimiter) []func(http.Handler) http.Handler {
	if rl == nil {
		return nil
	}
	return []func(http.Handler) http.Handler{rl.Middleware}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
