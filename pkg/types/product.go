package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog entry. The order core only ever reads a
// product's name and current unit price; stock is tracked but never
// decremented by order placement.
type Product struct {
	ID            int64
	Name          string
	Description   *string // Nullable
	UnitPrice     decimal.Decimal
	StockQuantity int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks product fields before persistence
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrEmptyProductName
	}
	if !p.UnitPrice.IsPositive() {
		return ErrNonPositivePrice
	}
	if p.StockQuantity < 0 {
		return ErrNegativeStock
	}
	return nil
}
