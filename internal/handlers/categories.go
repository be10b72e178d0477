// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"inventario/internal/forms"
	"inventario/internal/models"
	"inventario/internal/render"
	"inventario/internal/session"
	"inventario/internal/store"
)

const (
	msgCategoryCreated = "Categoría creada correctamente."
	msgCategoryUpdated = "Categoría actualizada correctamente."
	msgCategoryDeleted = "Categoría eliminada correctamente."
	msgCategoryInUse   = "No se puede eliminar: hay productos asociados."
)

// CategoriesList renders every category with its product count.
func (h *Inventory) CategoriesList(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List(r.Context())
	if err != nil {
		serverError(w, r, "list categories failed", err)
		return
	}

	h.renderer.Page(w, r, "category_list", &render.PageData{
		Title:   "Categorías",
		Section: "categorias",
		Data:    map[string]any{"Items": items},
	})
}

// CategoryNew renders the empty category form.
func (h *Inventory) CategoryNew(w http.ResponseWriter, r *http.Request) {
	h.categoryForm(w, r, nil, forms.CategoryForm{}, forms.Errors{})
}

// CategoryCreate validates and stores a new category.
func (h *Inventory) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	f := forms.BindCategory(r.PostForm)
	if errs := f.Validate(); !errs.Valid() {
		h.categoryForm(w, r, nil, f, errs)
		return
	}

	_, err := h.categories.Create(r.Context(), f.Category())
	if errors.Is(err, store.ErrDuplicateName) {
		h.categoryForm(w, r, nil, f, forms.Errors{"name": forms.MsgDuplicateName})
		return
	}
	if err != nil {
		serverError(w, r, "create category failed", err)
		return
	}

	h.flash(r, session.FlashSuccess, msgCategoryCreated)
	http.Redirect(w, r, "/categorias", http.StatusSeeOther)
}

// CategoryEdit renders the category form pre-filled with stored values.
func (h *Inventory) CategoryEdit(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCategory(w, r)
	if !ok {
		return
	}
	h.categoryForm(w, r, c, forms.CategoryFormFrom(c), forms.Errors{})
}

// CategoryUpdate validates and saves changes to a category.
func (h *Inventory) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCategory(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	f := forms.BindCategory(r.PostForm)
	if errs := f.Validate(); !errs.Valid() {
		h.categoryForm(w, r, c, f, errs)
		return
	}

	updated := f.Category()
	updated.ID = c.ID
	err := h.categories.Update(r.Context(), updated)
	if errors.Is(err, store.ErrDuplicateName) {
		h.categoryForm(w, r, c, f, forms.Errors{"name": forms.MsgDuplicateName})
		return
	}
	if err != nil {
		serverError(w, r, "update category failed", err)
		return
	}

	h.flash(r, session.FlashSuccess, msgCategoryUpdated)
	http.Redirect(w, r, "/categorias", http.StatusSeeOther)
}

// CategoryDeleteConfirm renders the delete confirmation page.
func (h *Inventory) CategoryDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCategory(w, r)
	if !ok {
		return
	}
	h.renderer.Page(w, r, "category_delete", &render.PageData{
		Title:   "Eliminar categoría",
		Section: "categorias",
		Data:    map[string]any{"Item": c},
	})
}

// CategoryDelete removes a category. A category that still owns products
// is kept and the user is told why.
func (h *Inventory) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCategory(w, r)
	if !ok {
		return
	}

	err := h.categories.Delete(r.Context(), c.ID)
	if errors.Is(err, store.ErrCategoryInUse) {
		h.flash(r, session.FlashError, msgCategoryInUse)
		http.Redirect(w, r, "/categorias", http.StatusSeeOther)
		return
	}
	if err != nil {
		serverError(w, r, "delete category failed", err)
		return
	}

	h.flash(r, session.FlashSuccess, msgCategoryDeleted)
	http.Redirect(w, r, "/categorias", http.StatusSeeOther)
}

// loadCategory resolves the {id} parameter, writing a 404 when the id is
// malformed or unknown.
func (h *Inventory) loadCategory(w http.ResponseWriter, r *http.Request) (*models.Category, bool) {
	id, ok := idParam(r)
	if !ok {
		h.renderer.NotFound(w, r)
		return nil, false
	}
	c, err := h.categories.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "find category failed", err)
		return nil, false
	}
	if c == nil {
		h.renderer.NotFound(w, r)
		return nil, false
	}
	return c, true
}

func (h *Inventory) categoryForm(w http.ResponseWriter, r *http.Request, c *models.Category, f forms.CategoryForm, errs forms.Errors) {
	title, action := "Nueva categoría", "/categorias/crear"
	if c != nil {
		title = "Editar categoría"
		action = fmt.Sprintf("/categorias/%d/editar", c.ID)
	}

	h.renderer.Page(w, r, "category_form", &render.PageData{
		Title:   title,
		Section: "categorias",
		Data: map[string]any{
			"Form":   f,
			"Errors": errs,
			"Action": action,
		},
	})
}
