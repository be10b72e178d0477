// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"inventario/internal/cache"
	"inventario/internal/config"
	"inventario/internal/database"
	"inventario/internal/handlers"
	"inventario/internal/middleware"
	"inventario/internal/render"
	"inventario/internal/router"
	"inventario/internal/session"
	"inventario/internal/store"
)

const (
	// Login attempts allowed per client IP within loginWindow.
	loginLimit  = 10
	loginWindow = time.Minute

	shutdownTimeout = 30 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Connects to PostgreSQL and Valkey, applies pending migrations and
serves the web app until SIGINT or SIGTERM. In development the database is
seeded with an admin/admin account and a few categories and tags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("host", "", "listen host")
	serveCmd.Flags().String("port", "", "listen port")
	mustBind(config.KeyHost, serveCmd.Flags().Lookup("host"))
	mustBind(config.KeyPort, serveCmd.Flags().Lookup("port"))
}

func serve(ctx context.Context) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return fmt.Errorf("connect to valkey: %w", err)
	}
	defer valkeyClient.Close()

	// Outside development, cookies are only sent over HTTPS.
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("load time zone: %w", err)
	}
	renderer, err := render.New(sessionStore, loc)
	if err != nil {
		return fmt.Errorf("initialize template renderer: %w", err)
	}

	userStore := store.NewUserStore(db)
	productStore := store.NewProductStore(db)
	categoryStore := store.NewCategoryStore(db)
	tagStore := store.NewTagStore(db)

	loginLimiter := middleware.NewRateLimiter(loginLimit, loginWindow)
	defer loginLimiter.Stop()

	r := router.New(router.Deps{
		Sessions:      sessionStore,
		Renderer:      renderer,
		Inventory:     handlers.NewInventory(renderer, sessionStore, productStore, categoryStore, tagStore),
		Auth:          handlers.NewAuth(renderer, sessionStore, userStore),
		Public:        handlers.NewPublic(renderer, db, valkeyClient),
		LoginLimiter:  loginLimiter,
		SecureCookies: secureCookies,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests time to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
