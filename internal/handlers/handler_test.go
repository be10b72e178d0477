// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"inventario/internal/database"
	"inventario/internal/middleware"
	"inventario/internal/models"
	"inventario/internal/render"
	"inventario/internal/session"
	"inventario/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inventario")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inventario")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "flash:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB         *sql.DB
	Valkey     *redis.Client
	Renderer   *render.Renderer
	Sessions   *session.Store
	Users      *store.UserStore
	Products   *store.ProductStore
	Categories *store.CategoryStore
	Tags       *store.TagStore
	Inventory  *Inventory
	Auth       *Auth
	Public     *Public
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	renderer, err := render.New(sessions, nil)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	users := store.NewUserStore(db)
	products := store.NewProductStore(db)
	categories := store.NewCategoryStore(db)
	tags := store.NewTagStore(db)

	return &testEnv{
		DB:         db,
		Valkey:     vk,
		Renderer:   renderer,
		Sessions:   sessions,
		Users:      users,
		Products:   products,
		Categories: categories,
		Tags:       tags,
		Inventory:  NewInventory(renderer, sessions, products, categories, tags),
		Auth:       NewAuth(renderer, sessions, users),
		Public:     NewPublic(renderer, db, vk),
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return middleware.WithSession(ctx, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, username string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:    userID,
		Username:  username,
		TwoFADone: twoFADone,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// postForm builds a form-encoded POST request.
func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// withIDAndSession attaches a chi {id} parameter and a signed-in session.
func withIDAndSession(r *http.Request, id string) *http.Request {
	r = withChiURLParam(r, "id", id)
	return r.WithContext(ctxWithSession(r.Context(), testSession(uuid.New(), "tester", true)))
}

// startSession stores a real session in Valkey and adds its cookie to r,
// so flash messages queued by the handler can be read back.
func startSession(t *testing.T, env *testEnv, r *http.Request) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	data := testSession(uuid.New(), "tester", true)
	_, err := env.Sessions.Create(context.Background(), rec, data)
	require.NoError(t, err)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r.WithContext(ctxWithSession(r.Context(), data))
}

// popFlashes returns the messages queued for r's session.
func popFlashes(t *testing.T, env *testEnv, r *http.Request) []string {
	t.Helper()
	flashes, err := env.Sessions.PopFlashes(context.Background(), r)
	require.NoError(t, err)
	var out []string
	for _, f := range flashes {
		out = append(out, f.Message)
	}
	return out
}

// uniqueName returns prefix plus a short random suffix.
func uniqueName(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

// createCategory inserts a category and removes it, with any products
// still in it, at the end of the test.
func createCategory(t *testing.T, env *testEnv) *models.Category {
	t.Helper()
	c, err := env.Categories.Create(context.Background(), &models.Category{Name: uniqueName("cat")})
	require.NoError(t, err)
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM products WHERE category_id = $1", c.ID)
		env.DB.Exec("DELETE FROM categories WHERE id = $1", c.ID)
	})
	return c
}

// createTag inserts a tag removed at the end of the test.
func createTag(t *testing.T, env *testEnv) *models.Tag {
	t.Helper()
	tag, err := env.Tags.Create(context.Background(), &models.Tag{Name: uniqueName("tag")})
	require.NoError(t, err)
	t.Cleanup(func() { env.DB.Exec("DELETE FROM tags WHERE id = $1", tag.ID) })
	return tag
}

// createProduct inserts a product in c with the given tags and an empty detail.
func createProduct(t *testing.T, env *testEnv, name string, c *models.Category, tags ...*models.Tag) *models.Product {
	t.Helper()
	var ids []int64
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	p, err := env.Products.Create(context.Background(), &models.Product{
		Name:       name,
		Price:      decimal.RequireFromString("9.90"),
		CategoryID: c.ID,
	}, ids, &models.Detail{})
	require.NoError(t, err)
	return p
}

// createUser inserts a login removed at the end of the test.
func createUser(t *testing.T, env *testEnv, password string) *models.User {
	t.Helper()
	u, err := env.Users.Create(context.Background(), uniqueName("user"), password, false)
	require.NoError(t, err)
	t.Cleanup(func() { env.Users.Delete(context.Background(), u.ID) })
	return u
}
