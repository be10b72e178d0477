// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the inventory app.
// Handlers are grouped by concern (inventory, auth, public) and receive
// their dependencies through the handler struct.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inventario/internal/render"
	"inventario/internal/session"
	"inventario/internal/store"
)

// Inventory groups the product, category and tag handlers.
type Inventory struct {
	renderer   *render.Renderer
	sessions   *session.Store
	products   *store.ProductStore
	categories *store.CategoryStore
	tags       *store.TagStore
}

// NewInventory creates the Inventory handler group.
func NewInventory(renderer *render.Renderer, sessions *session.Store, products *store.ProductStore, categories *store.CategoryStore, tags *store.TagStore) *Inventory {
	return &Inventory{
		renderer:   renderer,
		sessions:   sessions,
		products:   products,
		categories: categories,
		tags:       tags,
	}
}

// flash queues a message for the next rendered page. Failures are logged
// and otherwise ignored.
func (h *Inventory) flash(r *http.Request, kind, msg string) {
	if err := h.sessions.AddFlash(r.Context(), r, session.Flash{Type: kind, Message: msg}); err != nil {
		slog.Warn("flash add failed", "error", err)
	}
}

// idParam parses the {id} route parameter as a positive integer.
func idParam(r *http.Request) (int64, bool) {
	return parsePositive(chi.URLParam(r, "id"))
}

// parsePositive parses s as a positive integer id.
func parsePositive(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// serverError logs err and replies with a bare 500.
func serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "error", err, "path", r.URL.Path)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
