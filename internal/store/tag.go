// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"inventario/internal/models"
)

// TagStore manages tags in the database.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// List returns all tags ordered by name, with the number of tagged products.
func (s *TagStore) List(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, COUNT(pt.product_id) AS product_count
		FROM tags t
		LEFT JOIN product_tags pt ON pt.tag_id = t.id
		GROUP BY t.id
		ORDER BY t.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.ProductCount); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// FindByID retrieves a tag by ID. Returns nil if not found.
func (s *TagStore) FindByID(ctx context.Context, id int64) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM tags WHERE id = $1`, id).Scan(&t.ID, &t.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	return &t, nil
}

// Create inserts a new tag and returns it.
func (s *TagStore) Create(ctx context.Context, t *models.Tag) (*models.Tag, error) {
	var created models.Tag
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO tags (name) VALUES ($1) RETURNING id, name`, t.Name,
	).Scan(&created.ID, &created.Name)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("create tag: %w", ErrDuplicateName)
	}
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &created, nil
}

// Update renames an existing tag.
func (s *TagStore) Update(ctx context.Context, t *models.Tag) error {
	_, err := s.db.ExecContext(ctx, `UPDATE tags SET name = $1 WHERE id = $2`, t.Name, t.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("update tag: %w", ErrDuplicateName)
	}
	if err != nil {
		return fmt.Errorf("update tag: %w", err)
	}
	return nil
}

// Delete removes a tag. Its product associations go with it
// (ON DELETE CASCADE); the products themselves are untouched.
func (s *TagStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}
