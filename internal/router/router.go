// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// inventory app. Routes fall into three groups: public pages, the
// half-signed-in 2FA step, and the signed-in inventory area.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"inventario/internal/handlers"
	"inventario/internal/middleware"
	"inventario/internal/render"
	"inventario/internal/session"
	"inventario/web"
)

// Deps carries everything New needs to build the router.
type Deps struct {
	Sessions  *session.Store
	Renderer  *render.Renderer
	Inventory *handlers.Inventory
	Auth      *handlers.Auth
	Public    *handlers.Public

	// LoginLimiter throttles POST /accounts/login. Nil disables throttling.
	LoginLimiter *middleware.RateLimiter

	// SecureCookies marks the CSRF cookie Secure (HTTPS only).
	SecureCookies bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check and static assets: no session, no CSRF.
	r.Get("/health", d.Public.Health)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRF(d.SecureCookies))
		r.Use(middleware.LoadSession(d.Sessions))

		r.Get("/", d.Public.Index)

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/login", d.Auth.LoginPage)
			r.With(limit(d.LoginLimiter)).Post("/login", d.Auth.LoginSubmit)
			r.Post("/logout", d.Auth.Logout)

			// 2FA verify requires a session but NOT completed 2FA.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/2fa/verify", d.Auth.TwoFAVerifyPage)
				r.With(limit(d.LoginLimiter)).Post("/2fa/verify", d.Auth.TwoFAVerifySubmit)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.Require2FA)
				r.Get("/2fa/setup", d.Auth.TwoFASetupPage)
				r.Post("/2fa/setup", d.Auth.TwoFASetupSubmit)
				r.Post("/2fa/disable", d.Auth.TwoFADisable)
			})
		})

		// Signed-in inventory area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			inv := d.Inventory

			r.Route("/productos", func(r chi.Router) {
				r.Get("/", inv.ProductsList)
				r.Get("/crear", inv.ProductNew)
				r.Post("/crear", inv.ProductCreate)
				r.Get("/{id}", inv.ProductShow)
				r.Get("/{id}/editar", inv.ProductEdit)
				r.Post("/{id}/editar", inv.ProductUpdate)
				r.Get("/{id}/eliminar", inv.ProductDeleteConfirm)
				r.Post("/{id}/eliminar", inv.ProductDelete)
			})

			r.Route("/categorias", func(r chi.Router) {
				r.Get("/", inv.CategoriesList)
				r.Get("/crear", inv.CategoryNew)
				r.Post("/crear", inv.CategoryCreate)
				r.Get("/{id}/editar", inv.CategoryEdit)
				r.Post("/{id}/editar", inv.CategoryUpdate)
				r.Get("/{id}/eliminar", inv.CategoryDeleteConfirm)
				r.Post("/{id}/eliminar", inv.CategoryDelete)
			})

			r.Route("/etiquetas", func(r chi.Router) {
				r.Get("/", inv.TagsList)
				r.Get("/crear", inv.TagNew)
				r.Post("/crear", inv.TagCreate)
				r.Get("/{id}/editar", inv.TagEdit)
				r.Post("/{id}/editar", inv.TagUpdate)
				r.Get("/{id}/eliminar", inv.TagDeleteConfirm)
				r.Post("/{id}/eliminar", inv.TagDelete)
			})
		})

		// Registered last so the mounted sub-routers inherit it.
		r.NotFound(d.Renderer.NotFound)
	})

	return r
}

// limit returns rl's middleware, or a pass-through when rl is nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}
