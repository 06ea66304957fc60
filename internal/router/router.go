// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// site API. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"studiosite/internal/handlers"
	"studiosite/internal/middleware"
	"studiosite/internal/models"
	"studiosite/internal/token"
)

// Deps carries everything the router wires together.
type Deps struct {
	Codec    *token.Codec
	Users    middleware.UserFinder
	Auth     *handlers.Auth
	Content  *handlers.Content
	Contacts *handlers.Contacts
	Accounts *handlers.Users
	Uploads  *handlers.Uploads

	// CORSOrigin is the browser origin allowed to call the API.
	CORSOrigin string

	// LocalUploadsDir is served under /uploads when not empty. Leave empty
	// when uploads go to object storage.
	LocalUploadsDir string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(d.CORSOrigin))

	// Health check, no auth.
	r.Get("/api/health", healthHandler)

	// Public read API.
	for i := range handlers.Entities {
		e := &handlers.Entities[i]
		r.Get("/api/"+e.Path, d.Content.PublicList(e))
		r.Get("/api/"+e.Path+"/{slug}", d.Content.PublicDetail(e))
	}

	// Contact form. Rate-limited per IP to keep the lead table clean.
	contactLimiter := middleware.NewRateLimiter(5, time.Minute)
	r.With(contactLimiter.Middleware).Post("/api/contact", d.Contacts.Submit)

	// Admin API.
	r.Route("/api/admin", func(r chi.Router) {
		// Login is the only unauthenticated admin route. Brute-force
		// protection via rate limiting per IP.
		loginLimiter := middleware.NewRateLimiter(10, time.Minute)
		r.With(loginLimiter.Middleware).Post("/login", d.Auth.Login)

		// Everything else requires a valid token and a live account.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticator(d.Codec, d.Users))
			r.Use(middleware.RequireRoles(models.AdminRoles...))

			r.Get("/context", d.Auth.Context)
			r.Put("/profile", d.Auth.UpdateProfile)

			r.Post("/2fa/setup", d.Auth.TwoFASetup)
			r.Post("/2fa/enable", d.Auth.TwoFAEnable)
			r.Post("/2fa/disable", d.Auth.TwoFADisable)

			// Content CRUD, one route set per type.
			for i := range handlers.Entities {
				e := &handlers.Entities[i]
				r.Route("/"+e.Path, func(r chi.Router) {
					r.Get("/", d.Content.AdminList(e))
					r.Post("/", d.Content.AdminCreate(e))
					r.Get("/{id}", d.Content.AdminGet(e))
					r.Put("/{id}", d.Content.AdminUpdate(e))
					r.Delete("/{id}", d.Content.AdminDelete(e))
					if e.Uploads {
						r.Post("/upload", d.Uploads.Upload(*e))
					}
				})
			}

			// Lead workflow. Deleting leads is reserved for admins.
			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", d.Contacts.AdminList)
				r.Get("/{id}", d.Contacts.AdminGet)
				r.Put("/{id}", d.Contacts.AdminUpdateStatus)
				r.With(middleware.RequireRoles(models.RoleAdmin)).Delete("/{id}", d.Contacts.AdminDelete)
			})

			// Upload library.
			r.Route("/uploads", func(r chi.Router) {
				r.Get("/", d.Uploads.List)
				r.Delete("/{id}", d.Uploads.Delete)
			})

			// User management, admin only.
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireRoles(models.RoleAdmin))
				r.Get("/", d.Accounts.List)
				r.Post("/", d.Accounts.Create)
				r.Get("/{id}", d.Accounts.Get)
				r.Put("/{id}", d.Accounts.Update)
				r.Delete("/{id}", d.Accounts.Delete)
			})
		})
	})

	// Locally stored uploads are served straight from disk.
	if d.LocalUploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.LocalUploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}` + "\n"))
}
