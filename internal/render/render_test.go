// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"inventario/internal/forms"
	"inventario/internal/middleware"
	"inventario/internal/models"
	"inventario/internal/session"
)

// fakeFlashes is a FlashSource that returns a fixed set of messages once.
type fakeFlashes struct {
	items []session.Flash
	err   error
	calls int
}

func (f *fakeFlashes) PopFlashes(_ context.Context, _ *http.Request) ([]session.Flash, error) {
	f.calls++
	items := f.items
	f.items = nil
	return items, f.err
}

// helperSession returns a session.Data suitable for rendering templates.
func helperSession() *session.Data {
	return &session.Data{
		UserID:    uuid.New(),
		Username:  "bodeguero",
		TwoFADone: true,
	}
}

// helperRequest builds a request whose context optionally carries a session.
func helperRequest(method, target string, sess *session.Data) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if sess != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), sess))
	}
	return req
}

func newRenderer(t *testing.T, flashes FlashSource) *Renderer {
	t.Helper()
	rn, err := New(flashes, nil)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	return rn
}

func TestNew(t *testing.T) {
	rn := newRenderer(t, nil)

	for _, name := range []string{
		"index", "404", "login", "2fa_verify", "2fa_setup",
		"product_list", "product_form", "product_detail", "product_delete",
		"category_list", "category_form", "category_delete",
		"tag_list", "tag_form", "tag_delete",
	} {
		if _, ok := rn.templates[name]; !ok {
			t.Errorf("expected template %q to be parsed", name)
		}
	}

	if _, ok := rn.templates["base"]; ok {
		t.Error("base.html should not be registered as a separate template")
	}
}

func TestPageRendersLayout(t *testing.T) {
	rn := newRenderer(t, nil)

	w := httptest.NewRecorder()
	rn.Page(w, helperRequest(http.MethodGet, "/", nil), "index", &PageData{Title: "Inicio"})

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("content-type: got %q", ct)
	}
	body := w.Body.String()
	for _, want := range []string{"<title>Inicio · Inventario</title>", "/static/css/app.css", "Iniciar sesión"} {
		if !strings.Contains(body, want) {
			t.Errorf("body should contain %q", want)
		}
	}
}

func TestSessionInjectionFromContext(t *testing.T) {
	rn := newRenderer(t, nil)
	sess := helperSession()

	w := httptest.NewRecorder()
	rn.Page(w, helperRequest(http.MethodGet, "/", sess), "index", &PageData{})

	body := w.Body.String()
	if !strings.Contains(body, "bodeguero") {
		t.Error("expected username from the session in the navigation")
	}
	if !strings.Contains(body, `href="/productos"`) {
		t.Error("expected inventory navigation for a signed-in user")
	}
}

func TestPageDataCSRFInjection(t *testing.T) {
	rn := newRenderer(t, nil)

	var rendered string
	h := middleware.NewCSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rn.Page(w, r, "login", &PageData{Data: map[string]any{
			"Form":   forms.LoginForm{Next: "/productos"},
			"Errors": forms.Errors{},
		}})
	}))

	req := httptest.NewRequest(http.MethodGet, "/accounts/login", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CSRFCookieName, Value: "tok-123"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	rendered = w.Body.String()

	if !strings.Contains(rendered, `name="csrf_token" value="tok-123"`) {
		t.Error("expected the CSRF token from the cookie in the form")
	}
	if !strings.Contains(rendered, `name="next" value="/productos"`) {
		t.Error("expected the next path in a hidden field")
	}
}

func TestFlashesShownOnceForSession(t *testing.T) {
	src := &fakeFlashes{items: []session.Flash{
		{Type: session.FlashSuccess, Message: "Producto creado correctamente."},
	}}
	rn := newRenderer(t, src)
	sess := helperSession()

	w := httptest.NewRecorder()
	rn.Page(w, helperRequest(http.MethodGet, "/productos", sess), "index", &PageData{})
	if !strings.Contains(w.Body.String(), "Producto creado correctamente.") {
		t.Fatal("expected flash message in first render")
	}
	if !strings.Contains(w.Body.String(), "flash-success") {
		t.Error("expected flash type as CSS class")
	}

	w = httptest.NewRecorder()
	rn.Page(w, helperRequest(http.MethodGet, "/productos", sess), "index", &PageData{})
	if strings.Contains(w.Body.String(), "Producto creado correctamente.") {
		t.Error("flash should not be shown twice")
	}
}

func TestFlashesSkippedWithoutSession(t *testing.T) {
	src := &fakeFlashes{}
	rn := newRenderer(t, src)

	w := httptest.NewRecorder()
	rn.Page(w, helperRequest(http.MethodGet, "/", nil), "index", &PageData{})
	if src.calls != 0 {
		t.Errorf("PopFlashes called %d times for an anonymous request", src.calls)
	}
}

func TestFlashErrorStillRenders(t *testing.T) {
	rn := newRenderer(t, &fakeFlashes{err: errors.New("valkey down")})

	w := httptest.NewRecorder()
	rn.Page(w, helperRequest(http.MethodGet, "/", helperSession()), "index", &PageData{})
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", w.Code)
	}
}

func TestMissingTemplate(t *testing.T) {
	rn := newRenderer(t, nil)

	w := httptest.NewRecorder()
	rn.Page(w, helperRequest(http.MethodGet, "/", nil), "nope", &PageData{})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", w.Code)
	}
}

func TestNotFound(t *testing.T) {
	rn := newRenderer(t, nil)

	w := httptest.NewRecorder()
	rn.NotFound(w, helperRequest(http.MethodGet, "/productos/999", helperSession()))
	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Página no encontrada") {
		t.Error("expected not-found message")
	}
}

func TestProductFormRendersErrorsAndSelections(t *testing.T) {
	rn := newRenderer(t, nil)

	form := forms.ProductForm{Name: "Taladro", Price: "12,5", CategoryID: "2", TagIDs: []string{"7"}}
	w := httptest.NewRecorder()
	rn.Page(w, helperRequest(http.MethodPost, "/productos/crear", helperSession()), "product_form", &PageData{
		Title:   "Nuevo producto",
		Section: "productos",
		Data: map[string]any{
			"Form":       form,
			"Detail":     forms.DetailForm{Dimensions: "10x10x10"},
			"Errors":     forms.Errors{"price": "Introduzca un número."},
			"Categories": []models.Category{{ID: 1, Name: "Jardín"}, {ID: 2, Name: "Herramientas"}},
			"Tags":       []models.Tag{{ID: 7, Name: "oferta"}, {ID: 8, Name: "nuevo"}},
			"Action":     "/productos/crear",
			"Cancel":     "/productos",
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`value="Taladro"`,
		`value="12,5"`,
		"Introduzca un número.",
		`<option value="2" selected>Herramientas</option>`,
		`value="7" checked`,
		`value="10x10x10"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body should contain %q", want)
		}
	}
	if strings.Contains(body, `value="8" checked`) {
		t.Error("unselected tag should not be checked")
	}
}

func TestProductDetailRendersMarkdownAndDetail(t *testing.T) {
	rn, err := New(nil, time.FixedZone("CLT", -3*3600))
	if err != nil {
		t.Fatal(err)
	}

	p := &models.Product{
		ID:          5,
		Name:        "Taladro",
		Description: "**Potente** <script>x</script>",
		Price:       decimal.RequireFromString("19990"),
		Category:    &models.Category{ID: 2, Name: "Herramientas"},
		Tags:        []models.Tag{{ID: 7, Name: "oferta"}},
		Detail: &models.Detail{
			Dimensions: "30x20x10",
			Weight:     decimal.NewNullDecimal(decimal.RequireFromString("1.5")),
		},
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	w := httptest.NewRecorder()
	rn.Page(w, helperRequest(http.MethodGet, "/productos/5", helperSession()), "product_detail", &PageData{
		Data: map[string]any{"Product": p},
	})

	body := w.Body.String()
	for _, want := range []string{
		"<strong>Potente</strong>",
		"$19990.00",
		"1.5 kg",
		"30x20x10",
		"01/03/2026 09:00",
		`href="/productos?etiqueta=7"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body should contain %q", want)
		}
	}
	if strings.Contains(body, "<script>x</script>") {
		t.Error("raw HTML in the description must be escaped")
	}
}
