package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the aggregate root for a customer purchase. It exclusively owns
// its line items; TotalAmount is derived and always equals the sum of the
// items' line totals after any successful mutation.
type Order struct {
	ID           int64
	Reference    string // UUID assigned at creation
	CustomerName string
	CreatedAt    time.Time
	TotalAmount  decimal.Decimal
	Items        []LineItem // Insertion order
	UpdatedAt    time.Time
}

// LineItem is one product-quantity entry within an order. ProductName and
// UnitPrice are snapshots taken when the item was added; they are never
// re-synced against the catalog.
type LineItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	LineTotal   decimal.Decimal // UnitPrice * Quantity
	CreatedAt   time.Time
}

// ItemRequest is a caller-supplied request for one line item. The product is
// resolved against the live catalog at mutation time.
type ItemRequest struct {
	ProductID int64
	Quantity  int
}

// SkippedItem reports a requested item that could not be resolved during
// batch order creation. The creation still succeeds with the remaining items.
type SkippedItem struct {
	ProductID int64
	Quantity  int
	Reason    string
}

// SumLineTotals computes the aggregate total for a set of items
func SumLineTotals(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
	}
	return total
}
