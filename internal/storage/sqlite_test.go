package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	return storage
}

func newTestProduct(name string, price string) *Product {
	return &Product{
		Name:          name,
		UnitPrice:     decimal.RequireFromString(price),
		StockQuantity: 10,
	}
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	assert.NotNil(t, storage)
	assert.NotNil(t, storage.db)
}

func TestClose(t *testing.T) {
	storage := setupTestDB(t)
	err := storage.Close()
	assert.NoError(t, err)
}

func TestCreateProduct(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	desc := "mechanical, tenkeyless"
	product := &Product{
		Name:          "Keyboard",
		Description:   &desc,
		UnitPrice:     decimal.RequireFromString("149.90"),
		StockQuantity: 25,
	}

	err := storage.CreateProduct(ctx, product)
	require.NoError(t, err)
	assert.Greater(t, product.ID, int64(0))
	assert.False(t, product.CreatedAt.IsZero())
}

func TestGetProduct(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	product := newTestProduct("Mouse", "59.90")
	err := storage.CreateProduct(ctx, product)
	require.NoError(t, err)

	retrieved, err := storage.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, retrieved.ID)
	assert.Equal(t, "Mouse", retrieved.Name)
	assert.Nil(t, retrieved.Description)
	assert.True(t, retrieved.UnitPrice.Equal(decimal.RequireFromString("59.90")))
}

func TestGetProduct_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	_, err := storage.GetProduct(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProducts(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	require.NoError(t, storage.CreateProduct(ctx, newTestProduct("A", "1.00")))
	require.NoError(t, storage.CreateProduct(ctx, newTestProduct("B", "2.00")))

	products, err := storage.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "A", products[0].Name)
	assert.Equal(t, "B", products[1].Name)
}

func TestUpdateProduct(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	product := newTestProduct("Monitor", "800.00")
	require.NoError(t, storage.CreateProduct(ctx, product))

	product.Name = "Monitor 27in"
	product.UnitPrice = decimal.RequireFromString("950.00")
	product.StockQuantity = 3
	err := storage.UpdateProduct(ctx, product)
	require.NoError(t, err)

	updated, err := storage.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Monitor 27in", updated.Name)
	assert.True(t, updated.UnitPrice.Equal(decimal.RequireFromString("950.00")))
	assert.Equal(t, 3, updated.StockQuantity)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	product := newTestProduct("Ghost", "1.00")
	product.ID = 4242
	err := storage.UpdateProduct(context.Background(), product)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	product := newTestProduct("Webcam", "120.00")
	require.NoError(t, storage.CreateProduct(ctx, product))

	err := storage.DeleteProduct(ctx, product.ID)
	require.NoError(t, err)

	_, err = storage.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Second delete reports not found
	err = storage.DeleteProduct(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateOrder(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	order := &Order{
		Reference:    "ref-1",
		CustomerName: "Maria Souza",
		TotalAmount:  decimal.Zero,
	}

	err := storage.CreateOrder(ctx, order)
	require.NoError(t, err)
	assert.Greater(t, order.ID, int64(0))
	assert.False(t, order.CreatedAt.IsZero())

	// Duplicate reference - should fail
	duplicate := &Order{Reference: "ref-1", CustomerName: "Other"}
	err = storage.CreateOrder(ctx, duplicate)
	assert.Error(t, err) // Unique constraint violation
}

func TestGetOrder_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	_, err := storage.GetOrder(context.Background(), 123)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateOrderHeader(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	order := &Order{Reference: "ref-h", CustomerName: "Old Name", TotalAmount: decimal.RequireFromString("10")}
	require.NoError(t, storage.CreateOrder(ctx, order))

	newCreatedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err := storage.UpdateOrderHeader(ctx, order.ID, "New Name", newCreatedAt)
	require.NoError(t, err)

	updated, err := storage.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.CustomerName)
	assert.True(t, newCreatedAt.Equal(updated.CreatedAt))
	// Total is untouched by header updates
	assert.True(t, updated.TotalAmount.Equal(decimal.RequireFromString("10")))

	err = storage.UpdateOrderHeader(ctx, 9999, "Nobody", newCreatedAt)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateOrderTotal(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	order := &Order{Reference: "ref-t", CustomerName: "Customer", TotalAmount: decimal.Zero}
	require.NoError(t, storage.CreateOrder(ctx, order))

	err := storage.UpdateOrderTotal(ctx, order.ID, decimal.RequireFromString("42.50"))
	require.NoError(t, err)

	updated, err := storage.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(decimal.RequireFromString("42.50")))
}

func TestOrderItems_CRUD(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	order := &Order{Reference: "ref-i", CustomerName: "Customer", TotalAmount: decimal.Zero}
	require.NoError(t, storage.CreateOrder(ctx, order))

	item := &OrderItem{
		OrderID:     order.ID,
		ProductID:   7,
		ProductName: "Keyboard",
		UnitPrice:   decimal.RequireFromString("10.00"),
		Quantity:    2,
		LineTotal:   decimal.RequireFromString("20.00"),
	}
	require.NoError(t, storage.CreateItem(ctx, item))
	assert.Greater(t, item.ID, int64(0))

	retrieved, err := storage.GetItem(ctx, order.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", retrieved.ProductName)
	assert.Equal(t, 2, retrieved.Quantity)
	assert.True(t, retrieved.LineTotal.Equal(decimal.RequireFromString("20.00")))

	// Lookup scoped to the wrong order misses
	_, err = storage.GetItem(ctx, order.ID+1, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = storage.UpdateItemQuantity(ctx, order.ID, item.ID, 5, decimal.RequireFromString("50.00"))
	require.NoError(t, err)

	updated, err := storage.GetItem(ctx, order.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
	assert.True(t, updated.LineTotal.Equal(decimal.RequireFromString("50.00")))

	err = storage.DeleteItem(ctx, order.ID, item.ID)
	require.NoError(t, err)
	_, err = storage.GetItem(ctx, order.ID, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListItemsByOrder_InsertionOrder(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	order := &Order{Reference: "ref-l", CustomerName: "Customer", TotalAmount: decimal.Zero}
	require.NoError(t, storage.CreateOrder(ctx, order))

	names := []string{"First", "Second", "Third"}
	for _, name := range names {
		item := &OrderItem{
			OrderID:     order.ID,
			ProductID:   1,
			ProductName: name,
			UnitPrice:   decimal.New(1, 0),
			Quantity:    1,
			LineTotal:   decimal.New(1, 0),
		}
		require.NoError(t, storage.CreateItem(ctx, item))
	}

	items, err := storage.ListItemsByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, name := range names {
		assert.Equal(t, name, items[i].ProductName)
	}
}

func TestDeleteOrder_CascadesToItems(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	order := &Order{Reference: "ref-c", CustomerName: "Customer", TotalAmount: decimal.Zero}
	require.NoError(t, storage.CreateOrder(ctx, order))

	item := &OrderItem{
		OrderID:     order.ID,
		ProductID:   1,
		ProductName: "Cable",
		UnitPrice:   decimal.New(5, 0),
		Quantity:    1,
		LineTotal:   decimal.New(5, 0),
	}
	require.NoError(t, storage.CreateItem(ctx, item))

	err := storage.DeleteOrder(ctx, order.ID)
	require.NoError(t, err)

	_, err = storage.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// No orphaned items remain queryable
	items, err := storage.ListItemsByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteOrder_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	err := storage.DeleteOrder(context.Background(), 555)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransaction_CommitAndRollback(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()

	// Rolled-back order must not be visible
	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)
	order := &Order{Reference: "ref-rb", CustomerName: "Rollback", TotalAmount: decimal.Zero}
	require.NoError(t, tx.CreateOrder(ctx, order))
	require.NoError(t, tx.Rollback())

	_, err = storage.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Committed order plus item are visible together
	tx, err = storage.BeginTx(ctx)
	require.NoError(t, err)
	order = &Order{Reference: "ref-cm", CustomerName: "Commit", TotalAmount: decimal.Zero}
	require.NoError(t, tx.CreateOrder(ctx, order))
	item := &OrderItem{
		OrderID:     order.ID,
		ProductID:   1,
		ProductName: "Cable",
		UnitPrice:   decimal.New(5, 0),
		Quantity:    2,
		LineTotal:   decimal.New(10, 0),
	}
	require.NoError(t, tx.CreateItem(ctx, item))
	require.NoError(t, tx.Commit())

	retrieved, err := storage.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Commit", retrieved.CustomerName)

	items, err := storage.ListItemsByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestTransaction_NestedNotSupported(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = tx.BeginTx(ctx)
	assert.Error(t, err)
}
