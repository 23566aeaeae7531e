package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/orderdesk-mcp/internal/catalog"
	"github.com/dshills/orderdesk-mcp/internal/storage"
	"github.com/dshills/orderdesk-mcp/pkg/types"
)

// maxResolveWorkers bounds concurrent catalog lookups during batch creation
const maxResolveWorkers = 4

// Manager owns the lifecycle of orders and their line items. Every mutation
// that touches both an item and the order total runs inside one transaction,
// and mutations are serialized per order.
type Manager struct {
	storage storage.Storage
	catalog catalog.Resolver
	logger  *zap.Logger
	locks   orderLocks
}

// New creates a new order Manager
func New(store storage.Storage, resolver catalog.Resolver, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		storage: store,
		catalog: resolver,
		logger:  logger,
	}
}

// resolvedItem pairs a request with its catalog snapshot during creation
type resolvedItem struct {
	request  types.ItemRequest
	snapshot catalog.Snapshot
	ok       bool
	reason   string
}

// CreateOrder creates an order together with its line items. Each requested
// item is resolved against the live catalog; a missing product skips that
// single item (reported in the returned SkippedItem slice) while the rest of
// the batch proceeds. The order row, all item rows, and the total are
// committed as a single transaction; any persistence failure rolls the whole
// operation back. An order with zero resolved items is still created.
func (m *Manager) CreateOrder(ctx context.Context, customerName string, requested []types.ItemRequest) (*types.Order, []types.SkippedItem, error) {
	if customerName == "" {
		return nil, nil, types.ErrEmptyCustomerName
	}
	for _, req := range requested {
		if req.Quantity <= 0 {
			return nil, nil, types.ErrNonPositiveQty
		}
	}

	resolved, err := m.resolveAll(ctx, requested)
	if err != nil {
		return nil, nil, err
	}

	skipped := make([]types.SkippedItem, 0)
	items := make([]storage.OrderItem, 0, len(resolved))
	total := decimal.Zero
	for _, r := range resolved {
		if !r.ok {
			skipped = append(skipped, types.SkippedItem{
				ProductID: r.request.ProductID,
				Quantity:  r.request.Quantity,
				Reason:    r.reason,
			})
			m.logger.Warn("skipping unresolvable order item",
				zap.Int64("product_id", r.request.ProductID),
				zap.String("reason", r.reason))
			continue
		}
		lineTotal := r.snapshot.UnitPrice.Mul(decimal.NewFromInt(int64(r.request.Quantity)))
		items = append(items, storage.OrderItem{
			ProductID:   r.request.ProductID,
			ProductName: r.snapshot.Name,
			UnitPrice:   r.snapshot.UnitPrice,
			Quantity:    r.request.Quantity,
			LineTotal:   lineTotal,
		})
		total = total.Add(lineTotal)
	}

	tx, err := m.storage.BeginTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	order := &storage.Order{
		Reference:    uuid.NewString(),
		CustomerName: customerName,
		TotalAmount:  total,
	}
	if err := tx.CreateOrder(ctx, order); err != nil {
		return nil, nil, err
	}
	for i := range items {
		items[i].OrderID = order.ID
		if err := tx.CreateItem(ctx, &items[i]); err != nil {
			return nil, nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit order creation: %w", err)
	}

	rows := make([]*storage.OrderItem, len(items))
	for i := range items {
		rows[i] = &items[i]
	}
	result := order.ToTypesOrder(rows)
	return &result, skipped, nil
}

// resolveAll resolves every requested item concurrently, preserving request
// order. A missing product marks its slot as skipped; any other failure
// aborts the batch.
func (m *Manager) resolveAll(ctx context.Context, requested []types.ItemRequest) ([]resolvedItem, error) {
	resolved := make([]resolvedItem, len(requested))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxResolveWorkers)
	for i, req := range requested {
		g.Go(func() error {
			resolved[i].request = req
			snap, err := m.catalog.Resolve(gctx, req.ProductID)
			if errors.Is(err, types.ErrProductNotFound) {
				resolved[i].reason = err.Error()
				return nil
			}
			if err != nil {
				return err
			}
			resolved[i].snapshot = snap
			resolved[i].ok = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve order items: %w", err)
	}
	return resolved, nil
}

// GetOrder returns the full order with its items in insertion order. An
// existing order with no items returns an empty Items slice, distinct from
// ErrOrderNotFound.
func (m *Manager) GetOrder(ctx context.Context, orderID int64) (*types.Order, error) {
	order, err := m.storage.GetOrder(ctx, orderID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, types.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := m.storage.ListItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := order.ToTypesOrder(items)
	return &result, nil
}

// UpdateOrderHeader mutates only the customer name and creation timestamp.
// Items and total are never touched.
func (m *Manager) UpdateOrderHeader(ctx context.Context, orderID int64, customerName string, createdAt time.Time) (*types.Order, error) {
	if customerName == "" {
		return nil, types.ErrEmptyCustomerName
	}

	err := m.storage.UpdateOrderHeader(ctx, orderID, customerName, createdAt)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, types.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return m.GetOrder(ctx, orderID)
}

// AddItem resolves the product, inserts a snapshotted line item, and
// recomputes the order total, all within one transaction. A missing product
// or order fails without mutating anything.
func (m *Manager) AddItem(ctx context.Context, orderID, productID int64, quantity int) (*types.LineItem, error) {
	if quantity <= 0 {
		return nil, types.ErrNonPositiveQty
	}

	// Resolve before opening the transaction; the snapshot is immutable
	// from here on.
	snap, err := m.catalog.Resolve(ctx, productID)
	if err != nil {
		return nil, err
	}

	release := m.locks.Acquire(orderID)
	defer release()

	tx, err := m.storage.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.GetOrder(ctx, orderID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, types.ErrOrderNotFound
		}
		return nil, err
	}

	item := &storage.OrderItem{
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: snap.Name,
		UnitPrice:   snap.UnitPrice,
		Quantity:    quantity,
		LineTotal:   snap.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
	if err := tx.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	if err := m.recomputeTotal(ctx, tx, orderID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit item addition: %w", err)
	}

	result := item.ToTypesLineItem()
	return &result, nil
}

// EditItemQuantity changes an item's quantity, recomputing its line total
// from the stored unit price (the catalog is not consulted) and the parent
// order's total within the same transaction.
func (m *Manager) EditItemQuantity(ctx context.Context, orderID, itemID int64, quantity int) (*types.LineItem, error) {
	if quantity <= 0 {
		return nil, types.ErrNonPositiveQty
	}

	release := m.locks.Acquire(orderID)
	defer release()

	tx, err := m.storage.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	item, err := tx.GetItem(ctx, orderID, itemID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, types.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	if err := tx.UpdateItemQuantity(ctx, orderID, itemID, quantity, lineTotal); err != nil {
		return nil, err
	}
	if err := m.recomputeTotal(ctx, tx, orderID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit quantity edit: %w", err)
	}

	item.Quantity = quantity
	item.LineTotal = lineTotal
	result := item.ToTypesLineItem()
	return &result, nil
}

// RemoveItem deletes a line item and recomputes the parent order's total in
// the same transaction
func (m *Manager) RemoveItem(ctx context.Context, orderID, itemID int64) error {
	release := m.locks.Acquire(orderID)
	defer release()

	tx, err := m.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.DeleteItem(ctx, orderID, itemID)
	if errors.Is(err, storage.ErrNotFound) {
		return types.ErrItemNotFound
	}
	if err != nil {
		return err
	}
	if err := m.recomputeTotal(ctx, tx, orderID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit item removal: %w", err)
	}
	return nil
}

// DeleteOrder removes the order and all of its line items as one atomic
// unit (the storage layer cascades the deletion)
func (m *Manager) DeleteOrder(ctx context.Context, orderID int64) error {
	release := m.locks.Acquire(orderID)
	defer release()

	err := m.storage.DeleteOrder(ctx, orderID)
	if errors.Is(err, storage.ErrNotFound) {
		return types.ErrOrderNotFound
	}
	return err
}

// recomputeTotal rewrites the order's total_amount as the decimal sum of its
// current line totals, inside the caller's transaction
func (m *Manager) recomputeTotal(ctx context.Context, tx storage.Tx, orderID int64) error {
	items, err := tx.ListItemsByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
	}
	return tx.UpdateOrderTotal(ctx, orderID, total)
}
