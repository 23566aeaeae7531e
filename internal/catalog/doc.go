// Package catalog manages the product registry and resolves products for
// the order core.
//
// The Resolver interface is the only dependency the order manager takes on
// the catalog: a read-only lookup of a product's name and current unit
// price. Resolution happens once per line item at mutation time; the
// resulting snapshot is owned by the line item from then on.
package catalog
