// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"inventario/internal/database"
	"inventario/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inventario")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inventario")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// uniqueName returns prefix plus a short random suffix so parallel test
// runs against one database do not collide on unique names.
func uniqueName(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

// createTestCategory inserts a category and removes it (and any products
// left in it) when the test ends.
func createTestCategory(t *testing.T, db *sql.DB, name string) *models.Category {
	t.Helper()
	c, err := NewCategoryStore(db).Create(context.Background(), &models.Category{Name: name})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Exec("DELETE FROM products WHERE category_id = $1", c.ID)
		db.Exec("DELETE FROM categories WHERE id = $1", c.ID)
	})
	return c
}

// createTestTag inserts a tag and removes it when the test ends.
func createTestTag(t *testing.T, db *sql.DB, name string) *models.Tag {
	t.Helper()
	tag, err := NewTagStore(db).Create(context.Background(), &models.Tag{Name: name})
	require.NoError(t, err)
	t.Cleanup(func() { db.Exec("DELETE FROM tags WHERE id = $1", tag.ID) })
	return tag
}

// createTestProduct inserts a product in the given category with a detail row.
func createTestProduct(t *testing.T, db *sql.DB, name string, categoryID int64, tagIDs ...int64) *models.Product {
	t.Helper()
	p, err := NewProductStore(db).Create(context.Background(), &models.Product{
		Name:       name,
		Price:      decimal.RequireFromString("10.00"),
		CategoryID: categoryID,
	}, tagIDs, &models.Detail{Dimensions: "1x1x1"})
	require.NoError(t, err)
	return p
}

// cleanUsers removes test users by username. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, usernames ...string) {
	t.Helper()
	for _, u := range usernames {
		db.Exec("DELETE FROM users WHERE username = $1", u)
	}
}
