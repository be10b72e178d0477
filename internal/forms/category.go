// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forms

import (
	"net/url"
	"strings"

	"inventario/internal/models"
)

// Field limits, matching the column sizes.
const (
	MaxCategoryName = 100
	MaxTagName      = 50
	MaxProductName  = 150
	MaxDimensions   = 100
)

// CategoryForm is the create/edit form for a category.
type CategoryForm struct {
	Name        string
	Description string
}

// BindCategory reads a CategoryForm from submitted values.
func BindCategory(v url.Values) CategoryForm {
	return CategoryForm{
		Name:        v.Get("name"),
		Description: v.Get("description"),
	}
}

// CategoryFormFrom pre-fills the form for editing c.
func CategoryFormFrom(c *models.Category) CategoryForm {
	return CategoryForm{Name: c.Name, Description: c.Description}
}

// Validate checks the form and normalizes its fields in place.
func (f *CategoryForm) Validate() Errors {
	errs := Errors{}
	f.Name = checkText(errs, "name", f.Name, true, MaxCategoryName)
	f.Description = strings.TrimSpace(normalizeNewlines(f.Description))
	return errs
}

// Category returns the model described by a validated form.
func (f *CategoryForm) Category() *models.Category {
	return &models.Category{Name: f.Name, Description: f.Description}
}

// TagForm is the create/edit form for a tag.
type TagForm struct {
	Name string
}

// BindTag reads a TagForm from submitted values.
func BindTag(v url.Values) TagForm {
	return TagForm{Name: v.Get("name")}
}

// TagFormFrom pre-fills the form for editing t.
func TagFormFrom(t *models.Tag) TagForm {
	return TagForm{Name: t.Name}
}

// Validate checks the form and normalizes its fields in place.
func (f *TagForm) Validate() Errors {
	errs := Errors{}
	f.Name = checkText(errs, "name", f.Name, true, MaxTagName)
	return errs
}

// Tag returns the model described by a validated form.
func (f *TagForm) Tag() *models.Tag {
	return &models.Tag{Name: f.Name}
}
