// Package orders implements the order aggregate: creation with an initial
// item set, retrieval, header updates, item addition, quantity edits, item
// removal, and deletion.
//
// Two invariants hold after every successful mutation:
//
//   - every line item's line_total equals unit_price * quantity
//   - every order's total_amount equals the sum of its items' line totals
//
// The manager protects them by running each multi-row mutation in one
// storage transaction and serializing mutations per order, so a concurrent
// pair of item mutations can never recompute the total from a stale read.
//
// Product name and unit price are resolved against the catalog exactly once,
// when an item is created. Quantity edits and removals reuse the stored
// snapshot and never consult the catalog again.
package orders
