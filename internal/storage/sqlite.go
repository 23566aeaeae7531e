package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys (order_items cascade on order deletion depends on this)
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the transaction querier
func (t *sqliteTx) querier() querier {
	return t.tx
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Product operations

// createProductWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) createProductWithQuerier(ctx context.Context, q querier, product *Product) error {
	query := `
		INSERT INTO products (name, description, unit_price, stock_quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		product.Name, product.Description, product.UnitPrice.String(),
		product.StockQuantity, now, now)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	product.ID = id
	product.CreatedAt = now
	product.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) CreateProduct(ctx context.Context, product *Product) error {
	return s.createProductWithQuerier(ctx, s.querier(), product)
}

// getProductWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getProductWithQuerier(ctx context.Context, q querier, productID int64) (*Product, error) {
	query := `
		SELECT id, name, description, unit_price, stock_quantity, created_at, updated_at
		FROM products
		WHERE id = ?
	`
	var product Product
	var description sql.NullString
	var unitPrice string
	err := q.QueryRowContext(ctx, query, productID).Scan(
		&product.ID, &product.Name, &description, &unitPrice,
		&product.StockQuantity, &product.CreatedAt, &product.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if description.Valid {
		product.Description = &description.String
	}
	product.UnitPrice, err = decimal.NewFromString(unitPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid unit_price for product %d: %w", productID, err)
	}
	return &product, nil
}

func (s *SQLiteStorage) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	return s.getProductWithQuerier(ctx, s.querier(), productID)
}

// listProductsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listProductsWithQuerier(ctx context.Context, q querier) ([]*Product, error) {
	query := `
		SELECT id, name, description, unit_price, stock_quantity, created_at, updated_at
		FROM products
		ORDER BY id
	`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	products := make([]*Product, 0)
	for rows.Next() {
		var product Product
		var description sql.NullString
		var unitPrice string

		err := rows.Scan(
			&product.ID, &product.Name, &description, &unitPrice,
			&product.StockQuantity, &product.CreatedAt, &product.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if description.Valid {
			product.Description = &description.String
		}
		product.UnitPrice, err = decimal.NewFromString(unitPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid unit_price for product %d: %w", product.ID, err)
		}

		products = append(products, &product)
	}
	return products, rows.Err()
}

func (s *SQLiteStorage) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.listProductsWithQuerier(ctx, s.querier())
}

// updateProductWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) updateProductWithQuerier(ctx context.Context, q querier, product *Product) error {
	query := `
		UPDATE products
		SET name = ?, description = ?, unit_price = ?, stock_quantity = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		product.Name, product.Description, product.UnitPrice.String(),
		product.StockQuantity, now, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	product.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpdateProduct(ctx context.Context, product *Product) error {
	return s.updateProductWithQuerier(ctx, s.querier(), product)
}

// deleteProductWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) deleteProductWithQuerier(ctx context.Context, q querier, productID int64) error {
	query := `DELETE FROM products WHERE id = ?`
	result, err := q.ExecContext(ctx, query, productID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) DeleteProduct(ctx context.Context, productID int64) error {
	return s.deleteProductWithQuerier(ctx, s.querier(), productID)
}

// Order operations

// createOrderWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) createOrderWithQuerier(ctx context.Context, q querier, order *Order) error {
	query := `
		INSERT INTO orders (reference, customer_name, created_at, total_amount, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	result, err := q.ExecContext(ctx, query,
		order.Reference, order.CustomerName, order.CreatedAt,
		order.TotalAmount.String(), now)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	order.ID = id
	order.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) CreateOrder(ctx context.Context, order *Order) error {
	return s.createOrderWithQuerier(ctx, s.querier(), order)
}

// getOrderWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getOrderWithQuerier(ctx context.Context, q querier, orderID int64) (*Order, error) {
	query := `
		SELECT id, reference, customer_name, created_at, total_amount, updated_at
		FROM orders
		WHERE id = ?
	`
	var order Order
	var total string
	err := q.QueryRowContext(ctx, query, orderID).Scan(
		&order.ID, &order.Reference, &order.CustomerName,
		&order.CreatedAt, &total, &order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	order.TotalAmount, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("invalid total_amount for order %d: %w", orderID, err)
	}
	return &order, nil
}

func (s *SQLiteStorage) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	return s.getOrderWithQuerier(ctx, s.querier(), orderID)
}

// updateOrderHeaderWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) updateOrderHeaderWithQuerier(ctx context.Context, q querier, orderID int64, customerName string, createdAt time.Time) error {
	query := `
		UPDATE orders
		SET customer_name = ?, created_at = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := q.ExecContext(ctx, query, customerName, createdAt, time.Now(), orderID)
	if err != nil {
		return fmt.Errorf("failed to update order header: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) UpdateOrderHeader(ctx context.Context, orderID int64, customerName string, createdAt time.Time) error {
	return s.updateOrderHeaderWithQuerier(ctx, s.querier(), orderID, customerName, createdAt)
}

// updateOrderTotalWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) updateOrderTotalWithQuerier(ctx context.Context, q querier, orderID int64, total decimal.Decimal) error {
	query := `
		UPDATE orders
		SET total_amount = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := q.ExecContext(ctx, query, total.String(), time.Now(), orderID)
	if err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) UpdateOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	return s.updateOrderTotalWithQuerier(ctx, s.querier(), orderID, total)
}

// deleteOrderWithQuerier is the internal implementation that uses a querier.
// Line items go with the order through the ON DELETE CASCADE foreign key.
func (s *SQLiteStorage) deleteOrderWithQuerier(ctx context.Context, q querier, orderID int64) error {
	query := `DELETE FROM orders WHERE id = ?`
	result, err := q.ExecContext(ctx, query, orderID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) DeleteOrder(ctx context.Context, orderID int64) error {
	return s.deleteOrderWithQuerier(ctx, s.querier(), orderID)
}

// Order item operations

// createItemWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) createItemWithQuerier(ctx context.Context, q querier, item *OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity, line_total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		item.OrderID, item.ProductID, item.ProductName,
		item.UnitPrice.String(), item.Quantity, item.LineTotal.String(), now)
	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = id
	item.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) CreateItem(ctx context.Context, item *OrderItem) error {
	return s.createItemWithQuerier(ctx, s.querier(), item)
}

// getItemWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getItemWithQuerier(ctx context.Context, q querier, orderID, itemID int64) (*OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, unit_price, quantity, line_total, created_at
		FROM order_items
		WHERE order_id = ? AND id = ?
	`
	var item OrderItem
	var unitPrice, lineTotal string
	err := q.QueryRowContext(ctx, query, orderID, itemID).Scan(
		&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
		&unitPrice, &item.Quantity, &lineTotal, &item.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := scanDecimals(&item, unitPrice, lineTotal); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *SQLiteStorage) GetItem(ctx context.Context, orderID, itemID int64) (*OrderItem, error) {
	return s.getItemWithQuerier(ctx, s.querier(), orderID, itemID)
}

// listItemsByOrderWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listItemsByOrderWithQuerier(ctx context.Context, q querier, orderID int64) ([]*OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, unit_price, quantity, line_total, created_at
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`
	rows, err := q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := make([]*OrderItem, 0)
	for rows.Next() {
		var item OrderItem
		var unitPrice, lineTotal string

		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&unitPrice, &item.Quantity, &lineTotal, &item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := scanDecimals(&item, unitPrice, lineTotal); err != nil {
			return nil, err
		}

		items = append(items, &item)
	}
	return items, rows.Err()
}

func (s *SQLiteStorage) ListItemsByOrder(ctx context.Context, orderID int64) ([]*OrderItem, error) {
	return s.listItemsByOrderWithQuerier(ctx, s.querier(), orderID)
}

// updateItemQuantityWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) updateItemQuantityWithQuerier(ctx context.Context, q querier, orderID, itemID int64, quantity int, lineTotal decimal.Decimal) error {
	query := `
		UPDATE order_items
		SET quantity = ?, line_total = ?
		WHERE order_id = ? AND id = ?
	`
	result, err := q.ExecContext(ctx, query, quantity, lineTotal.String(), orderID, itemID)
	if err != nil {
		return fmt.Errorf("failed to update order item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) UpdateItemQuantity(ctx context.Context, orderID, itemID int64, quantity int, lineTotal decimal.Decimal) error {
	return s.updateItemQuantityWithQuerier(ctx, s.querier(), orderID, itemID, quantity, lineTotal)
}

// deleteItemWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) deleteItemWithQuerier(ctx context.Context, q querier, orderID, itemID int64) error {
	query := `DELETE FROM order_items WHERE order_id = ? AND id = ?`
	result, err := q.ExecContext(ctx, query, orderID, itemID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) DeleteItem(ctx context.Context, orderID, itemID int64) error {
	return s.deleteItemWithQuerier(ctx, s.querier(), orderID, itemID)
}

// scanDecimals parses the text money columns of an order item row
func scanDecimals(item *OrderItem, unitPrice, lineTotal string) error {
	var err error
	item.UnitPrice, err = decimal.NewFromString(unitPrice)
	if err != nil {
		return fmt.Errorf("invalid unit_price for item %d: %w", item.ID, err)
	}
	item.LineTotal, err = decimal.NewFromString(lineTotal)
	if err != nil {
		return fmt.Errorf("invalid line_total for item %d: %w", item.ID, err)
	}
	return nil
}

// Transaction implementations - delegate to main storage

// Write operations use the internal helper that uses querier()

func (t *sqliteTx) CreateProduct(ctx context.Context, product *Product) error {
	return t.storage.createProductWithQuerier(ctx, t.querier(), product)
}

func (t *sqliteTx) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	return t.storage.getProductWithQuerier(ctx, t.querier(), productID)
}

func (t *sqliteTx) ListProducts(ctx context.Context) ([]*Product, error) {
	return t.storage.listProductsWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) UpdateProduct(ctx context.Context, product *Product) error {
	return t.storage.updateProductWithQuerier(ctx, t.querier(), product)
}

func (t *sqliteTx) DeleteProduct(ctx context.Context, productID int64) error {
	return t.storage.deleteProductWithQuerier(ctx, t.querier(), productID)
}

func (t *sqliteTx) CreateOrder(ctx context.Context, order *Order) error {
	return t.storage.createOrderWithQuerier(ctx, t.querier(), order)
}

func (t *sqliteTx) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	return t.storage.getOrderWithQuerier(ctx, t.querier(), orderID)
}

func (t *sqliteTx) UpdateOrderHeader(ctx context.Context, orderID int64, customerName string, createdAt time.Time) error {
	return t.storage.updateOrderHeaderWithQuerier(ctx, t.querier(), orderID, customerName, createdAt)
}

func (t *sqliteTx) UpdateOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	return t.storage.updateOrderTotalWithQuerier(ctx, t.querier(), orderID, total)
}

func (t *sqliteTx) DeleteOrder(ctx context.Context, orderID int64) error {
	return t.storage.deleteOrderWithQuerier(ctx, t.querier(), orderID)
}

func (t *sqliteTx) CreateItem(ctx context.Context, item *OrderItem) error {
	return t.storage.createItemWithQuerier(ctx, t.querier(), item)
}

func (t *sqliteTx) GetItem(ctx context.Context, orderID, itemID int64) (*OrderItem, error) {
	return t.storage.getItemWithQuerier(ctx, t.querier(), orderID, itemID)
}

func (t *sqliteTx) ListItemsByOrder(ctx context.Context, orderID int64) ([]*OrderItem, error) {
	return t.storage.listItemsByOrderWithQuerier(ctx, t.querier(), orderID)
}

func (t *sqliteTx) UpdateItemQuantity(ctx context.Context, orderID, itemID int64, quantity int, lineTotal decimal.Decimal) error {
	return t.storage.updateItemQuantityWithQuerier(ctx, t.querier(), orderID, itemID, quantity, lineTotal)
}

func (t *sqliteTx) DeleteItem(ctx context.Context, orderID, itemID int64) error {
	return t.storage.deleteItemWithQuerier(ctx, t.querier(), orderID, itemID)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	// We return an error to prevent accidental misuse
	// If savepoints are needed in the future, implement here
	return nil, errors.New("nested transactions not supported")
}
