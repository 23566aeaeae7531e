// Package storage provides SQLite-based persistence for catalog and order data.
//
// The storage layer manages:
//   - Catalog products
//   - Orders and their derived totals
//   - Order line items (price snapshots)
//
// # Database Schema
//
// Tables:
//   - products: catalog entries (name, description, unit price, stock)
//   - orders: order headers (customer, created_at, total_amount)
//   - order_items: line items, cascade-deleted with their order
//
// Money columns are stored as decimal text and parsed through
// github.com/shopspring/decimal; totals are never computed with SQL
// floating-point arithmetic.
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.orderdesk/orderdesk.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	product, err := db.GetProduct(ctx, productID)
//
// # Transactions
//
// Every multi-row mutation (order creation with items, item mutation plus
// total recompute, order deletion) runs inside a single transaction:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer func() { _ = tx.Rollback() }()
//
//	if err := tx.CreateOrder(ctx, order); err != nil {
//	    return err
//	}
//	for i := range items {
//	    if err := tx.CreateItem(ctx, &items[i]); err != nil {
//	        return err
//	    }
//	}
//	return tx.Commit()
//
// Rollback after a successful Commit is a no-op, so the deferred Rollback
// guarantees no transaction is left open on any exit path.
package storage
