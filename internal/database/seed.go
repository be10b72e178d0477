// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// sampleCategories and sampleTags give a fresh development database
// something to select in the product form.
var (
	sampleCategories = []struct{ name, description string }{
		{"Herramientas", "Herramientas manuales y eléctricas."},
		{"Oficina", "Artículos de oficina y papelería."},
	}
	sampleTags = []string{"nuevo", "oferta", "importado"}
)

// Seed populates the database with initial development data.
// It creates a default admin user and a few categories and tags, each only
// when the corresponding table is empty.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed bcrypt: %w", err)
		}

		_, err = db.Exec(`
			INSERT INTO users (username, password_hash, is_staff)
			VALUES ($1, $2, $3)
		`, "admin", string(hash), true)
		if err != nil {
			return fmt.Errorf("seed insert admin: %w", err)
		}

		slog.Info("database seeded with default admin user",
			"username", "admin",
			"password", "admin",
		)
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count == 0 {
		for _, c := range sampleCategories {
			if _, err := db.Exec(
				`INSERT INTO categories (name, description) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
				c.name, c.description,
			); err != nil {
				return fmt.Errorf("seed insert category: %w", err)
			}
		}
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM tags").Scan(&count); err != nil {
		return fmt.Errorf("seed check tags: %w", err)
	}
	if count == 0 {
		for _, name := range sampleTags {
			if _, err := db.Exec(`INSERT INTO tags (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
				return fmt.Errorf("seed insert tag: %w", err)
			}
		}
	}

	return nil
}
