package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/orderdesk-mcp/internal/storage"
	"github.com/dshills/orderdesk-mcp/pkg/types"
)

func setupService(t *testing.T) (*Service, *storage.SQLiteStorage) {
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	return New(store), store
}

func TestCreateProduct(t *testing.T) {
	svc, store := setupService(t)
	defer store.Close()

	ctx := context.Background()
	created, err := svc.CreateProduct(ctx, types.Product{
		Name:          "Keyboard",
		UnitPrice:     decimal.RequireFromString("149.90"),
		StockQuantity: 12,
	})
	require.NoError(t, err)
	assert.Greater(t, created.ID, int64(0))
	assert.Equal(t, "Keyboard", created.Name)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, store := setupService(t)
	defer store.Close()

	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, types.Product{Name: "", UnitPrice: decimal.New(1, 0)})
	assert.ErrorIs(t, err, types.ErrEmptyProductName)

	_, err = svc.CreateProduct(ctx, types.Product{Name: "Free", UnitPrice: decimal.Zero})
	assert.ErrorIs(t, err, types.ErrNonPositivePrice)

	_, err = svc.CreateProduct(ctx, types.Product{Name: "Neg", UnitPrice: decimal.New(-5, 0)})
	assert.ErrorIs(t, err, types.ErrNonPositivePrice)

	_, err = svc.CreateProduct(ctx, types.Product{
		Name:          "Stockless",
		UnitPrice:     decimal.New(1, 0),
		StockQuantity: -1,
	})
	assert.ErrorIs(t, err, types.ErrNegativeStock)
}

func TestResolve(t *testing.T) {
	svc, store := setupService(t)
	defer store.Close()

	ctx := context.Background()
	created, err := svc.CreateProduct(ctx, types.Product{
		Name:      "Mouse",
		UnitPrice: decimal.RequireFromString("59.90"),
	})
	require.NoError(t, err)

	snap, err := svc.Resolve(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mouse", snap.Name)
	assert.True(t, snap.UnitPrice.Equal(decimal.RequireFromString("59.90")))
}

func TestResolve_NotFound(t *testing.T) {
	svc, store := setupService(t)
	defer store.Close()

	_, err := svc.Resolve(context.Background(), 9999)
	assert.ErrorIs(t, err, types.ErrProductNotFound)
}

func TestUpdateProduct(t *testing.T) {
	svc, store := setupService(t)
	defer store.Close()

	ctx := context.Background()
	created, err := svc.CreateProduct(ctx, types.Product{
		Name:      "Monitor",
		UnitPrice: decimal.RequireFromString("800.00"),
	})
	require.NoError(t, err)

	created.Name = "Monitor 27in"
	created.UnitPrice = decimal.RequireFromString("950.00")
	updated, err := svc.UpdateProduct(ctx, *created)
	require.NoError(t, err)
	assert.Equal(t, "Monitor 27in", updated.Name)
	assert.True(t, updated.UnitPrice.Equal(decimal.RequireFromString("950.00")))
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc, store := setupService(t)
	defer store.Close()

	_, err := svc.UpdateProduct(context.Background(), types.Product{
		ID:        4242,
		Name:      "Ghost",
		UnitPrice: decimal.New(1, 0),
	})
	assert.ErrorIs(t, err, types.ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	svc, store := setupService(t)
	defer store.Close()

	ctx := context.Background()
	created, err := svc.CreateProduct(ctx, types.Product{
		Name:      "Webcam",
		UnitPrice: decimal.RequireFromString("120.00"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteProduct(ctx, created.ID), types.ErrProductNotFound)

	_, err = svc.Resolve(ctx, created.ID)
	assert.ErrorIs(t, err, types.ErrProductNotFound)
}

func TestListProducts(t *testing.T) {
	svc, store := setupService(t)
	defer store.Close()

	ctx := context.Background()
	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	_, err = svc.CreateProduct(ctx, types.Product{Name: "A", UnitPrice: decimal.New(1, 0)})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, types.Product{Name: "B", UnitPrice: decimal.New(2, 0)})
	require.NoError(t, err)

	products, err = svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "A", products[0].Name)
}
