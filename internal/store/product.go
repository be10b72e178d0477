// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"inventario/internal/models"
)

// ProductStore manages products together with their tags and detail record.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

// ProductFilter narrows ProductStore.List. Zero values mean "no filter".
type ProductFilter struct {
	Query      string // case-insensitive substring of the product name
	CategoryID int64
	TagID      int64

	// InDescription widens Query to also match the description.
	InDescription bool
}

const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.category_id, p.created_at, p.updated_at,
	       c.id, c.name, c.description
	FROM products p
	JOIN categories c ON c.id = p.category_id`

// scanProduct scans a productSelect row into a Product with its Category set.
func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var c models.Category
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Name, &c.Description,
	)
	if err != nil {
		return nil, err
	}
	p.Category = &c
	return &p, nil
}

// List returns products ordered by name, each with its category and tags
// loaded.
func (s *ProductStore) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	var (
		where []string
		args  []any
	)
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, containsPattern(q))
		if f.InDescription {
			where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%[1]d)", len(args)))
		} else {
			where = append(where, fmt.Sprintf("p.name ILIKE $%d", len(args)))
		}
	}
	if f.CategoryID != 0 {
		args = append(args, f.CategoryID)
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if f.TagID != 0 {
		args = append(args, f.TagID)
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM product_tags pt WHERE pt.product_id = p.id AND pt.tag_id = $%d)", len(args)))
	}

	query := productSelect
	if len(where) > 0 {
		query += "\n\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\tORDER BY p.name, p.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if err := s.loadTags(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// loadTags fills in the Tags of every product in one query.
func (s *ProductStore) loadTags(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, len(products))
	index := make(map[int64]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		index[p.ID] = i
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pt.product_id, t.id, t.name
		FROM product_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.product_id = ANY($1)
		ORDER BY t.name
	`, ids)
	if err != nil {
		return fmt.Errorf("load product tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		var t models.Tag
		if err := rows.Scan(&productID, &t.ID, &t.Name); err != nil {
			return fmt.Errorf("scan product tag: %w", err)
		}
		if i, ok := index[productID]; ok {
			products[i].Tags = append(products[i].Tags, t)
		}
	}
	return rows.Err()
}

// FindByID retrieves a product with its category, tags and detail.
// Returns nil if not found.
func (s *ProductStore) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx, productSelect+"\n\tWHERE p.id = $1", id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}

	list := []models.Product{*p}
	if err := s.loadTags(ctx, list); err != nil {
		return nil, err
	}
	p = &list[0]

	p.Detail, err = s.FindDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a product, its tag set and its detail record in a single
// transaction. Either all of them are written or none is.
func (s *ProductStore) Create(ctx context.Context, p *models.Product, tagIDs []int64, d *models.Detail) (*models.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	created := *p
	err = tx.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, p.Name, p.Description, p.Price, p.CategoryID).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if isForeignKeyViolation(err) {
		return nil, fmt.Errorf("create product: %w", ErrInvalidReference)
	}
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := replaceTags(ctx, tx, created.ID, tagIDs); err != nil {
		return nil, err
	}

	if d == nil {
		d = &models.Detail{}
	}
	detail, err := upsertDetail(ctx, tx, created.ID, d)
	if err != nil {
		return nil, err
	}
	created.Detail = detail

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create product: %w", err)
	}
	return &created, nil
}

// Update rewrites a product's fields, replaces its tag set (an empty set
// clears every association) and creates or updates its detail record, all
// in one transaction.
func (s *ProductStore) Update(ctx context.Context, p *models.Product, tagIDs []int64, d *models.Detail) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		UPDATE products SET
			name = $1, description = $2, price = $3, category_id = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`, p.Name, p.Description, p.Price, p.CategoryID, p.ID).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update product %d: %w", p.ID, ErrNotFound)
	}
	if isForeignKeyViolation(err) {
		return fmt.Errorf("update product: %w", ErrInvalidReference)
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if err := replaceTags(ctx, tx, p.ID, tagIDs); err != nil {
		return err
	}

	if d != nil {
		if p.Detail, err = upsertDetail(ctx, tx, p.ID, d); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update product: %w", err)
	}
	return nil
}

// Delete removes a product. Its detail record and tag associations are
// removed by ON DELETE CASCADE.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// FindDetail returns the detail record of a product, or nil if it has none.
func (s *ProductStore) FindDetail(ctx context.Context, productID int64) (*models.Detail, error) {
	var d models.Detail
	err := s.db.QueryRowContext(ctx, `
		SELECT id, product_id, dimensions, weight
		FROM product_details WHERE product_id = $1
	`, productID).Scan(&d.ID, &d.ProductID, &d.Dimensions, &d.Weight)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product detail: %w", err)
	}
	return &d, nil
}

// DeleteDetail removes only the detail record of a product.
func (s *ProductStore) DeleteDetail(ctx context.Context, productID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM product_details WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete product detail: %w", err)
	}
	return nil
}

// replaceTags swaps the tag set of a product for tagIDs inside tx.
func replaceTags(ctx context.Context, tx *sql.Tx, productID int64, tagIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_tags WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("clear product tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO product_tags (product_id, tag_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare product tags: %w", err)
	}
	defer stmt.Close()

	for _, tagID := range tagIDs {
		_, err := stmt.ExecContext(ctx, productID, tagID)
		if isForeignKeyViolation(err) {
			return fmt.Errorf("tag product %d with %d: %w", productID, tagID, ErrInvalidReference)
		}
		if err != nil {
			return fmt.Errorf("tag product %d with %d: %w", productID, tagID, err)
		}
	}
	return nil
}

// upsertDetail writes the single detail row of a product inside tx.
func upsertDetail(ctx context.Context, tx *sql.Tx, productID int64, d *models.Detail) (*models.Detail, error) {
	var out models.Detail
	err := tx.QueryRowContext(ctx, `
		INSERT INTO product_details (product_id, dimensions, weight)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id) DO UPDATE SET
			dimensions = EXCLUDED.dimensions,
			weight = EXCLUDED.weight
		RETURNING id, product_id, dimensions, weight
	`, productID, d.Dimensions, d.Weight).Scan(&out.ID, &out.ProductID, &out.Dimensions, &out.Weight)
	if err != nil {
		return nil, fmt.Errorf("save product detail: %w", err)
	}
	return &out, nil
}
