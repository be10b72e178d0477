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
	msgTagCreated = "Etiqueta creada correctamente."
	msgTagUpdated = "Etiqueta actualizada correctamente."
	msgTagDeleted = "Etiqueta eliminada correctamente."
)

// TagsList renders every tag with its product count.
func (h *Inventory) TagsList(w http.ResponseWriter, r *http.Request) {
	items, err := h.tags.List(r.Context())
	if err != nil {
		serverError(w, r, "list tags failed", err)
		return
	}

	h.renderer.Page(w, r, "tag_list", &render.PageData{
		Title:   "Etiquetas",
		Section: "etiquetas",
		Data:    map[string]any{"Items": items},
	})
}

// TagNew renders the empty tag form.
func (h *Inventory) TagNew(w http.ResponseWriter, r *http.Request) {
	h.tagForm(w, r, nil, forms.TagForm{}, forms.Errors{})
}

// TagCreate validates and stores a new tag.
func (h *Inventory) TagCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	f := forms.BindTag(r.PostForm)
	if errs := f.Validate(); !errs.Valid() {
		h.tagForm(w, r, nil, f, errs)
		return
	}

	_, err := h.tags.Create(r.Context(), f.Tag())
	if errors.Is(err, store.ErrDuplicateName) {
		h.tagForm(w, r, nil, f, forms.Errors{"name": forms.MsgDuplicateName})
		return
	}
	if err != nil {
		serverError(w, r, "create tag failed", err)
		return
	}

	h.flash(r, session.FlashSuccess, msgTagCreated)
	http.Redirect(w, r, "/etiquetas", http.StatusSeeOther)
}

// TagEdit renders the tag form pre-filled with the stored name.
func (h *Inventory) TagEdit(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTag(w, r)
	if !ok {
		return
	}
	h.tagForm(w, r, t, forms.TagFormFrom(t), forms.Errors{})
}

// TagUpdate validates and saves a renamed tag.
func (h *Inventory) TagUpdate(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTag(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	f := forms.BindTag(r.PostForm)
	if errs := f.Validate(); !errs.Valid() {
		h.tagForm(w, r, t, f, errs)
		return
	}

	updated := f.Tag()
	updated.ID = t.ID
	err := h.tags.Update(r.Context(), updated)
	if errors.Is(err, store.ErrDuplicateName) {
		h.tagForm(w, r, t, f, forms.Errors{"name": forms.MsgDuplicateName})
		return
	}
	if err != nil {
		serverError(w, r, "update tag failed", err)
		return
	}

	h.flash(r, session.FlashSuccess, msgTagUpdated)
	http.Redirect(w, r, "/etiquetas", http.StatusSeeOther)
}

// TagDeleteConfirm renders the delete confirmation page.
func (h *Inventory) TagDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTag(w, r)
	if !ok {
		return
	}
	h.renderer.Page(w, r, "tag_delete", &render.PageData{
		Title:   "Eliminar etiqueta",
		Section: "etiquetas",
		Data:    map[string]any{"Item": t},
	})
}

// TagDelete removes a tag. Products keep existing; only their association
// with the tag goes away.
func (h *Inventory) TagDelete(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTag(w, r)
	if !ok {
		return
	}
	if err := h.tags.Delete(r.Context(), t.ID); err != nil {
		serverError(w, r, "delete tag failed", err)
		return
	}

	h.flash(r, session.FlashSuccess, msgTagDeleted)
	http.Redirect(w, r, "/etiquetas", http.StatusSeeOther)
}

func (h *Inventory) loadTag(w http.ResponseWriter, r *http.Request) (*models.Tag, bool) {
	id, ok := idParam(r)
	if !ok {
		h.renderer.NotFound(w, r)
		return nil, false
	}
	t, err := h.tags.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "find tag failed", err)
		return nil, false
	}
	if t == nil {
		h.renderer.NotFound(w, r)
		return nil, false
	}
	return t, true
}

func (h *Inventory) tagForm(w http.ResponseWriter, r *http.Request, t *models.Tag, f forms.TagForm, errs forms.Errors) {
	title, action := "Nueva etiqueta", "/etiquetas/crear"
	if t != nil {
		title = "Editar etiqueta"
		action = fmt.Sprintf("/etiquetas/%d/editar", t.ID)
	}

	h.renderer.Page(w, r, "tag_form", &render.PageData{
		Title:   title,
		Section: "etiquetas",
		Data: map[string]any{
			"Form":   f,
			"Errors": errs,
			"Action": action,
		},
	})
}
