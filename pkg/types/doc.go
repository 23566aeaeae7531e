// Package types provides shared type definitions for the OrderDesk MCP server.
//
// This package defines the domain types used across components: catalog
// products, orders, order line items, and the domain errors surfaced to
// callers.
//
// # Core Types
//
// Order is the aggregate root. It owns its LineItems exclusively and carries
// a derived total that must always equal the sum of its items' line totals:
//
//	order := &types.Order{
//	    CustomerName: "Maria Souza",
//	    Items: []types.LineItem{
//	        {ProductID: 7, ProductName: "Keyboard", UnitPrice: price, Quantity: 2},
//	    },
//	}
//
// LineItem snapshots the product name and unit price at the moment the item
// was added. Later catalog changes never propagate into existing items.
//
// # Money
//
// All monetary amounts use decimal.Decimal from github.com/shopspring/decimal.
// Float arithmetic is never used for prices or totals.
package types
