// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package web provides the embedded static assets (stylesheets) served at
// /static/.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:static
var StaticFS embed.FS

// Static returns the static directory as the root of the filesystem, so
// /static/css/app.css maps to css/app.css.
func Static() fs.FS {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
