// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forms

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"inventario/internal/models"
)

// Decimal shapes of the price and weight columns.
const (
	priceDigits  = 10
	pricePlaces  = 2
	weightDigits = 8
	weightPlaces = 3
)

// ProductForm is the create/edit form for a product. The raw fields hold
// what the user typed; the parsed values are filled in by Validate.
type ProductForm struct {
	Name        string
	Description string
	Price       string
	CategoryID  string
	TagIDs      []string

	price      decimal.Decimal
	categoryID int64
	tagIDs     []int64
}

// BindProduct reads a ProductForm from submitted values. Tags arrive as
// repeated "tags" fields from a multi-select or checkbox group.
func BindProduct(v url.Values) ProductForm {
	return ProductForm{
		Name:        v.Get("name"),
		Description: v.Get("description"),
		Price:       v.Get("price"),
		CategoryID:  v.Get("category"),
		TagIDs:      v["tags"],
	}
}

// ProductFormFrom pre-fills the form for editing p (with its tags loaded).
func ProductFormFrom(p *models.Product) ProductForm {
	f := ProductForm{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(pricePlaces),
		CategoryID:  formatID(p.CategoryID),
	}
	for _, id := range p.TagIDs() {
		f.TagIDs = append(f.TagIDs, formatID(id))
	}
	return f
}

// Validate checks the form against the offered category and tag choices
// and normalizes its fields in place. Repeated tag ids collapse into one.
func (f *ProductForm) Validate(categories []models.Category, tags []models.Tag) Errors {
	errs := Errors{}

	f.Name = checkText(errs, "name", f.Name, true, MaxProductName)
	f.Description = strings.TrimSpace(normalizeNewlines(f.Description))

	if strings.TrimSpace(f.Price) == "" {
		errs.Add("price", msgRequired)
	} else if d, ok := checkDecimal(errs, "price", f.Price, priceDigits, pricePlaces); ok {
		f.price = d
	}

	f.categoryID = 0
	if strings.TrimSpace(f.CategoryID) == "" {
		errs.Add("category", msgRequired)
	} else if id, ok := parseID(f.CategoryID); !ok || !hasCategory(categories, id) {
		errs.Add("category", MsgInvalidChoice)
	} else {
		f.categoryID = id
	}

	f.tagIDs = nil
	seen := make(map[int64]bool, len(f.TagIDs))
	for _, raw := range f.TagIDs {
		id, ok := parseID(raw)
		if !ok || !hasTag(tags, id) {
			errs.Add("tags", MsgInvalidChoice)
			continue
		}
		if !seen[id] {
			seen[id] = true
			f.tagIDs = append(f.tagIDs, id)
		}
	}

	return errs
}

// Product returns the model described by a validated form.
func (f *ProductForm) Product() *models.Product {
	return &models.Product{
		Name:        f.Name,
		Description: f.Description,
		Price:       f.price,
		CategoryID:  f.categoryID,
	}
}

// SelectedTagIDs returns the validated, de-duplicated tag ids.
func (f *ProductForm) SelectedTagIDs() []int64 {
	return f.tagIDs
}

// IsCategory reports whether id is the selected category, for templates.
func (f ProductForm) IsCategory(id int64) bool {
	return strings.TrimSpace(f.CategoryID) == formatID(id)
}

// HasTag reports whether id is among the selected tags, for templates.
func (f ProductForm) HasTag(id int64) bool {
	want := formatID(id)
	for _, raw := range f.TagIDs {
		if strings.TrimSpace(raw) == want {
			return true
		}
	}
	return false
}

// DetailForm is the inline form for a product's physical attributes. It
// is submitted together with ProductForm.
type DetailForm struct {
	Dimensions string
	Weight     string

	weight decimal.NullDecimal
}

// BindDetail reads a DetailForm from submitted values.
func BindDetail(v url.Values) DetailForm {
	return DetailForm{
		Dimensions: v.Get("dimensions"),
		Weight:     v.Get("weight"),
	}
}

// DetailFormFrom pre-fills the form from d, which may be nil.
func DetailFormFrom(d *models.Detail) DetailForm {
	if d == nil {
		return DetailForm{}
	}
	f := DetailForm{Dimensions: d.Dimensions}
	if d.Weight.Valid {
		f.Weight = d.Weight.Decimal.String()
	}
	return f
}

// Validate checks the form and normalizes its fields in place. Both
// fields are optional.
func (f *DetailForm) Validate() Errors {
	errs := Errors{}
	f.Dimensions = checkText(errs, "dimensions", f.Dimensions, false, MaxDimensions)

	f.weight = decimal.NullDecimal{}
	if strings.TrimSpace(f.Weight) != "" {
		if d, ok := checkDecimal(errs, "weight", f.Weight, weightDigits, weightPlaces); ok {
			f.weight = decimal.NewNullDecimal(d)
		}
	}
	return errs
}

// Detail returns the model described by a validated form.
func (f *DetailForm) Detail() *models.Detail {
	return &models.Detail{Dimensions: f.Dimensions, Weight: f.weight}
}

func hasCategory(categories []models.Category, id int64) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func hasTag(tags []models.Tag, id int64) bool {
	for _, t := range tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

// normalizeNewlines converts browser CRLF line endings to LF.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
