// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the stores translate into sentinel errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var (
	// ErrDuplicateName is returned when a category or tag name is already taken.
	ErrDuplicateName = errors.New("name already exists")

	// ErrDuplicateUsername is returned when creating a user whose username exists.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrCategoryInUse is returned when deleting a category that still owns products.
	ErrCategoryInUse = errors.New("category still has products")

	// ErrInvalidReference is returned when a product points at a category or
	// tag that does not exist (for example, deleted after the form was rendered).
	ErrInvalidReference = errors.New("referenced record does not exist")

	// ErrNotFound is returned by writes whose target row is gone, such as a
	// product deleted while its edit form was open.
	ErrNotFound = errors.New("record not found")
)

// pgErrorCode extracts the SQLSTATE code from a pgx error, or "" if err is
// not a PostgreSQL error.
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation reports whether err is a unique constraint violation.
func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

// isForeignKeyViolation reports whether err is a foreign key violation.
func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == pgForeignKeyViolation
}

// containsPattern builds an ILIKE pattern matching s anywhere, with the
// LIKE wildcards in s escaped so they match literally.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "%" + r.Replace(s) + "%"
}
