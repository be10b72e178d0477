// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stock item. It always belongs to exactly one category and
// may carry any number of tags and at most one Detail record.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int64           `json:"category_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Virtual fields populated by ProductStore queries.
	Category *Category `json:"category,omitempty"`
	Tags     []Tag     `json:"tags,omitempty"`
	Detail   *Detail   `json:"detail,omitempty"`
}

// String formats the product the way it appears in listings, e.g. "Widget ($9.90)".
func (p *Product) String() string {
	return fmt.Sprintf("%s ($%s)", p.Name, p.Price.StringFixed(2))
}

// TagIDs returns the ids of the product's loaded tags.
func (p *Product) TagIDs() []int64 {
	ids := make([]int64, 0, len(p.Tags))
	for _, t := range p.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// Detail holds optional physical attributes of a product. It exists in a
// strict one-to-one relationship with its product and is removed with it.
type Detail struct {
	ID         int64               `json:"id"`
	ProductID  int64               `json:"product_id"`
	Dimensions string              `json:"dimensions"` // "Largo x Ancho x Alto"
	Weight     decimal.NullDecimal `json:"weight"`     // kg, optional
}

// WeightLabel renders the weight for display, or an empty string when unset.
func (d *Detail) WeightLabel() string {
	if d == nil || !d.Weight.Valid {
		return ""
	}
	return d.Weight.Decimal.String() + " kg"
}
