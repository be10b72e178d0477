// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventario/internal/models"
)

func TestTagStoreCRUD(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)
	ctx := context.Background()

	tag := createTestTag(t, db, uniqueName("tag"))

	found, err := s.FindByID(ctx, tag.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, tag.Name, found.Name)

	found.Name = uniqueName("tag-renamed")
	require.NoError(t, s.Update(ctx, found))

	again, err := s.FindByID(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, found.Name, again.Name)

	require.NoError(t, s.Delete(ctx, tag.ID))
	gone, err := s.FindByID(ctx, tag.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestTagStoreDuplicateName(t *testing.T) {
	db := testDB(t)
	name := uniqueName("tag-dupe")
	createTestTag(t, db, name)

	_, err := NewTagStore(db).Create(context.Background(), &models.Tag{Name: name})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestTagStoreDeleteKeepsProducts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	c := createTestCategory(t, db, uniqueName("cat-tagdel"))
	tag := createTestTag(t, db, uniqueName("tag-del"))
	p := createTestProduct(t, db, "Etiquetado", c.ID, tag.ID)

	require.NoError(t, NewTagStore(db).Delete(ctx, tag.ID))

	product, err := NewProductStore(db).FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, product, "deleting a tag must not delete its products")
	assert.Empty(t, product.Tags)
}
