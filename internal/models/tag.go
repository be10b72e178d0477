// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Tag is a free-form label attached to any number of products.
// Deleting a tag removes its product associations, never the products.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	// Virtual field populated by TagStore.List.
	ProductCount int `json:"product_count"`
}

// String returns the tag name.
func (t *Tag) String() string {
	return t.Name
}
