package types

import "errors"

// Domain errors surfaced to callers. NotFound errors are definitive negative
// results and are never retried; validation errors are raised before any
// persistence attempt.
var (
	// Not-found errors
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrItemNotFound    = errors.New("order item not found")

	// Validation errors
	ErrEmptyCustomerName = errors.New("customer name cannot be empty")
	ErrEmptyProductName  = errors.New("product name cannot be empty")
	ErrNonPositiveQty    = errors.New("quantity must be greater than zero")
	ErrNonPositivePrice  = errors.New("unit price must be greater than zero")
	ErrNegativeStock     = errors.New("stock quantity cannot be negative")
)
