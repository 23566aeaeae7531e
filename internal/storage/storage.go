package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dshills/orderdesk-mcp/pkg/types"
)

// Storage defines the interface for persisting catalog and order data
type Storage interface {
	// Product operations
	CreateProduct(ctx context.Context, product *Product) error
	GetProduct(ctx context.Context, productID int64) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	UpdateProduct(ctx context.Context, product *Product) error
	DeleteProduct(ctx context.Context, productID int64) error

	// Order operations
	CreateOrder(ctx context.Context, order *Order) error
	GetOrder(ctx context.Context, orderID int64) (*Order, error)
	UpdateOrderHeader(ctx context.Context, orderID int64, customerName string, createdAt time.Time) error
	UpdateOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) error
	DeleteOrder(ctx context.Context, orderID int64) error

	// Order item operations. Item lookups are always scoped by (orderID,
	// itemID) so an item can never be addressed through another order.
	CreateItem(ctx context.Context, item *OrderItem) error
	GetItem(ctx context.Context, orderID, itemID int64) (*OrderItem, error)
	ListItemsByOrder(ctx context.Context, orderID int64) ([]*OrderItem, error)
	UpdateItemQuantity(ctx context.Context, orderID, itemID int64, quantity int, lineTotal decimal.Decimal) error
	DeleteItem(ctx context.Context, orderID, itemID int64) error

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Product represents a catalog product row
type Product struct {
	ID            int64
	Name          string
	Description   *string // Nullable
	UnitPrice     decimal.Decimal
	StockQuantity int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Order represents an order row. Items are stored separately in order_items
// and loaded through ListItemsByOrder.
type Order struct {
	ID           int64
	Reference    string
	CustomerName string
	CreatedAt    time.Time
	TotalAmount  decimal.Decimal
	UpdatedAt    time.Time
}

// OrderItem represents one line item row. ProductName and UnitPrice are
// snapshots taken when the item was inserted; product_id carries no foreign
// key so the snapshot survives later catalog deletions.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	LineTotal   decimal.Decimal
	CreatedAt   time.Time
}

// ToTypesProduct converts a storage Product to types.Product
func (p *Product) ToTypesProduct() types.Product {
	return types.Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		UnitPrice:     p.UnitPrice,
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// FromTypesProduct converts a types.Product to a storage Product
func FromTypesProduct(p types.Product) *Product {
	return &Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		UnitPrice:     p.UnitPrice,
		StockQuantity: p.StockQuantity,
	}
}

// ToTypesOrder converts a storage Order and its items to a types.Order
func (o *Order) ToTypesOrder(items []*OrderItem) types.Order {
	order := types.Order{
		ID:           o.ID,
		Reference:    o.Reference,
		CustomerName: o.CustomerName,
		CreatedAt:    o.CreatedAt,
		TotalAmount:  o.TotalAmount,
		Items:        make([]types.LineItem, 0, len(items)),
		UpdatedAt:    o.UpdatedAt,
	}
	for _, item := range items {
		order.Items = append(order.Items, item.ToTypesLineItem())
	}
	return order
}

// ToTypesLineItem converts a storage OrderItem to a types.LineItem
func (i *OrderItem) ToTypesLineItem() types.LineItem {
	return types.LineItem{
		ID:          i.ID,
		OrderID:     i.OrderID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		UnitPrice:   i.UnitPrice,
		Quantity:    i.Quantity,
		LineTotal:   i.LineTotal,
		CreatedAt:   i.CreatedAt,
	}
}
