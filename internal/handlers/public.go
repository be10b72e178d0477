// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"inventario/internal/cache"
	"inventario/internal/render"
)

// healthTimeout bounds each dependency check of the health endpoint.
const healthTimeout = 2 * time.Second

// Public groups handlers that need no session: the landing page and the
// health check.
type Public struct {
	renderer *render.Renderer
	db       *sql.DB
	valkey   *redis.Client
}

// NewPublic creates a new Public handler group. db and valkey may be nil,
// in which case the health check skips them.
func NewPublic(renderer *render.Renderer, db *sql.DB, valkey *redis.Client) *Public {
	return &Public{
		renderer: renderer,
		db:       db,
		valkey:   valkey,
	}
}

// Index renders the landing page, the only page reachable without a session.
func (p *Public) Index(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, r, "index", &render.PageData{Title: "Inicio"})
}

// Health reports whether PostgreSQL and Valkey answer. It returns 200 with
// {"status":"ok"} when both do and 503 otherwise.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if p.db != nil {
		checks["database"] = "ok"
		if err := p.db.PingContext(ctx); err != nil {
			slog.Warn("health check: database unreachable", "error", err)
			checks["database"] = "unavailable"
			healthy = false
		}
	}
	if p.valkey != nil {
		checks["cache"] = "ok"
		if err := cache.Ping(ctx, p.valkey); err != nil {
			slog.Warn("health check: valkey unreachable", "error", err)
			checks["cache"] = "unavailable"
			healthy = false
		}
	}

	status := http.StatusOK
	checks["status"] = "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		checks["status"] = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(checks)
}
