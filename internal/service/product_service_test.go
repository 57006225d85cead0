package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/alexanderramin/prodboard/internal/repository"
	"github.com/alexanderramin/prodboard/internal/testutil"
	"github.com/alexanderramin/prodboard/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_Create_ValidShortID(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	p := &domain.Product{Name: "Customer Portal", ShortID: "CRM01"}
	require.NoError(t, env.productSv.Create(ctx, p))
	assert.NotEmpty(t, p.ID, "UUID should be generated")
	assert.Equal(t, domain.ProductActive, p.Status, "status should default to active")

	fetched, err := env.productSv.GetByShortID(ctx, "CRM01")
	require.NoError(t, err)
	assert.Equal(t, "Customer Portal", fetched.Name)
}

func TestProductService_Create_InvalidShortID(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		shortID string
	}{
		{"empty", ""},
		{"lowercase", "crm01"},
		{"no digits", "CRMAPP"},
		{"too short letters", "CR01"},
		{"too long letters", "CUSTOMER01"},
		{"only digits", "12345"},
		{"special chars", "CR!01"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := env.productSv.Create(ctx, &domain.Product{Name: "Test", ShortID: tc.shortID})
			assert.ErrorIs(t, err, validation.ErrInvalid, "short ID %q should be rejected", tc.shortID)
		})
	}
}

func TestProductService_Create_DuplicateShortID(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	require.NoError(t, env.productSv.Create(ctx, &domain.Product{Name: "One", ShortID: "DUP01"}))
	err := env.productSv.Create(ctx, &domain.Product{Name: "Two", ShortID: "DUP01"})
	require.ErrorIs(t, err, validation.ErrInvalid)
	assert.Contains(t, err.Error(), "already in use")
}

func TestProductService_Create_RequiresName(t *testing.T) {
	env := setupEnv(t)
	err := env.productSv.Create(context.Background(), &domain.Product{Name: "  ", ShortID: "NON01"})
	assert.ErrorIs(t, err, validation.ErrInvalid)
}

func TestProductService_Delete_RequiresArchiveFirst(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	p := env.newProduct(t, "Active Product")

	err := env.productSv.Delete(ctx, p.ID, false)
	require.Error(t, err, "should require archive before delete")
	assert.Contains(t, err.Error(), "archived before deletion")

	require.NoError(t, env.productSv.Archive(ctx, p.ID))
	require.NoError(t, env.productSv.Delete(ctx, p.ID, false))

	_, err = env.productSv.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductService_Delete_Force(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	p := env.newProduct(t, "Forced")
	env.createFeature(t, p.ID, "Doomed feature")

	require.NoError(t, env.productSv.Delete(ctx, p.ID, true))

	features, err := env.features.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, features, "features should cascade with the product")
}

func TestProductService_ListHidesArchived(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.newProduct(t, "Visible")
	hidden := env.newProduct(t, "Hidden", testutil.WithShortID("HID01"))
	require.NoError(t, env.productSv.Archive(ctx, hidden.ID))

	active, err := env.productSv.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Visible", active[0].Name)

	all, err := env.productSv.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProductService_Update(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	p := env.newProduct(t, "Old name")
	p.Name = "New name"
	require.NoError(t, env.productSv.Update(ctx, p))

	got, err := env.productSv.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "New name", got.Name)

	p.Name = ""
	assert.ErrorIs(t, env.productSv.Update(ctx, p), validation.ErrInvalid)
}
