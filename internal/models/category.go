// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category groups products. A category cannot be deleted while any
// product still references it.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Virtual field populated by CategoryStore.List.
	ProductCount int `json:"product_count"`
}

// String returns the category name, as shown in select options.
func (c *Category) String() string {
	return c.Name
}
