// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"inventario/internal/forms"
	"inventario/internal/models"
	"inventario/internal/render"
	"inventario/internal/session"
	"inventario/internal/store"
)

const (
	msgProductCreated = "Producto creado correctamente."
	msgProductUpdated = "Producto actualizado correctamente."
	msgProductDeleted = "Producto eliminado correctamente."
)

// ProductsList renders the product list, filtered by the optional q
// (name substring), categoria and etiqueta query parameters. Malformed
// ids are ignored.
func (h *Inventory) ProductsList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := store.ProductFilter{Query: strings.TrimSpace(q.Get("q"))}
	filter.CategoryID, _ = parsePositive(q.Get("categoria"))
	filter.TagID, _ = parsePositive(q.Get("etiqueta"))
	filter.InDescription = q.Get("en_descripcion") == "1"

	items, err := h.products.List(ctx, filter)
	if err != nil {
		serverError(w, r, "list products failed", err)
		return
	}
	categories, tags, err := h.choices(r)
	if err != nil {
		serverError(w, r, "load product choices failed", err)
		return
	}

	h.renderer.Page(w, r, "product_list", &render.PageData{
		Title:   "Productos",
		Section: "productos",
		Data: map[string]any{
			"Items":         items,
			"Query":         filter.Query,
			"CategoryID":    filter.CategoryID,
			"TagID":         filter.TagID,
			"InDescription": filter.InDescription,
			"Categories":    categories,
			"Tags":          tags,
		},
	})
}

// ProductShow renders a single product with its category, tags and detail.
func (h *Inventory) ProductShow(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProduct(w, r)
	if !ok {
		return
	}

	h.renderer.Page(w, r, "product_detail", &render.PageData{
		Title:   p.Name,
		Section: "productos",
		Data:    map[string]any{"Product": p},
	})
}

// ProductNew renders the empty product form.
func (h *Inventory) ProductNew(w http.ResponseWriter, r *http.Request) {
	h.productForm(w, r, nil, forms.ProductForm{}, forms.DetailForm{}, forms.Errors{})
}

// ProductCreate validates the product and detail forms and, when both are
// valid, stores the product, its tags and its detail together.
func (h *Inventory) ProductCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	pf := forms.BindProduct(r.PostForm)
	df := forms.BindDetail(r.PostForm)

	errs, ok := h.validateProduct(w, r, &pf, &df)
	if !ok {
		return
	}
	if !errs.Valid() {
		h.productForm(w, r, nil, pf, df, errs)
		return
	}

	_, err := h.products.Create(r.Context(), pf.Product(), pf.SelectedTagIDs(), df.Detail())
	if errors.Is(err, store.ErrInvalidReference) {
		h.productForm(w, r, nil, pf, df, staleChoice())
		return
	}
	if err != nil {
		serverError(w, r, "create product failed", err)
		return
	}

	h.flash(r, session.FlashSuccess, msgProductCreated)
	http.Redirect(w, r, "/productos", http.StatusSeeOther)
}

// ProductEdit renders the product form pre-filled with the stored values.
func (h *Inventory) ProductEdit(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	h.productForm(w, r, p, forms.ProductFormFrom(p), forms.DetailFormFrom(p.Detail), forms.Errors{})
}

// ProductUpdate validates the forms and rewrites the product, replacing its
// tag set and creating or updating its detail.
func (h *Inventory) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	pf := forms.BindProduct(r.PostForm)
	df := forms.BindDetail(r.PostForm)

	errs, ok := h.validateProduct(w, r, &pf, &df)
	if !ok {
		return
	}
	if !errs.Valid() {
		h.productForm(w, r, p, pf, df, errs)
		return
	}

	updated := pf.Product()
	updated.ID = p.ID
	err := h.products.Update(r.Context(), updated, pf.SelectedTagIDs(), df.Detail())
	if errors.Is(err, store.ErrNotFound) {
		h.renderer.NotFound(w, r)
		return
	}
	if errors.Is(err, store.ErrInvalidReference) {
		h.productForm(w, r, p, pf, df, staleChoice())
		return
	}
	if err != nil {
		serverError(w, r, "update product failed", err)
		return
	}

	h.flash(r, session.FlashSuccess, msgProductUpdated)
	http.Redirect(w, r, fmt.Sprintf("/productos/%d", p.ID), http.StatusSeeOther)
}

// ProductDeleteConfirm renders the delete confirmation page.
func (h *Inventory) ProductDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	h.renderer.Page(w, r, "product_delete", &render.PageData{
		Title:   "Eliminar producto",
		Section: "productos",
		Data:    map[string]any{"Item": p},
	})
}

// ProductDelete removes the product together with its detail.
func (h *Inventory) ProductDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	if err := h.products.Delete(r.Context(), p.ID); err != nil {
		serverError(w, r, "delete product failed", err)
		return
	}

	h.flash(r, session.FlashSuccess, msgProductDeleted)
	http.Redirect(w, r, "/productos", http.StatusSeeOther)
}

// loadProduct resolves the {id} parameter. It writes a 404 and returns
// false when the id is malformed or unknown.
func (h *Inventory) loadProduct(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	id, ok := idParam(r)
	if !ok {
		h.renderer.NotFound(w, r)
		return nil, false
	}
	p, err := h.products.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "find product failed", err)
		return nil, false
	}
	if p == nil {
		h.renderer.NotFound(w, r)
		return nil, false
	}
	return p, true
}

// validateProduct runs both forms against the current category and tag
// choices and merges their errors. ok is false when the choices could not
// be loaded and a response was already written.
func (h *Inventory) validateProduct(w http.ResponseWriter, r *http.Request, pf *forms.ProductForm, df *forms.DetailForm) (forms.Errors, bool) {
	categories, tags, err := h.choices(r)
	if err != nil {
		serverError(w, r, "load product choices failed", err)
		return nil, false
	}
	errs := pf.Validate(categories, tags)
	for field, msg := range df.Validate() {
		errs.Add(field, msg)
	}
	return errs, true
}

// productForm renders the create form (p == nil) or the edit form for p.
func (h *Inventory) productForm(w http.ResponseWriter, r *http.Request, p *models.Product, pf forms.ProductForm, df forms.DetailForm, errs forms.Errors) {
	categories, tags, err := h.choices(r)
	if err != nil {
		serverError(w, r, "load product choices failed", err)
		return
	}

	title, action, cancel := "Nuevo producto", "/productos/crear", "/productos"
	if p != nil {
		title = "Editar producto"
		action = fmt.Sprintf("/productos/%d/editar", p.ID)
		cancel = fmt.Sprintf("/productos/%d", p.ID)
	}

	h.renderer.Page(w, r, "product_form", &render.PageData{
		Title:   title,
		Section: "productos",
		Data: map[string]any{
			"Form":       pf,
			"Detail":     df,
			"Errors":     errs,
			"Categories": categories,
			"Tags":       tags,
			"Action":     action,
			"Cancel":     cancel,
		},
	})
}

// choices loads the categories and tags offered by the product form.
func (h *Inventory) choices(r *http.Request) ([]models.Category, []models.Tag, error) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		return nil, nil, err
	}
	tags, err := h.tags.List(r.Context())
	if err != nil {
		return nil, nil, err
	}
	return categories, tags, nil
}

// staleChoice is reported when a category or tag vanished between
// validation and the write.
func staleChoice() forms.Errors {
	return forms.Errors{"category": forms.MsgInvalidChoice}
}
