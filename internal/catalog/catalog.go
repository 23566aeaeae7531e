package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dshills/orderdesk-mcp/internal/storage"
	"github.com/dshills/orderdesk-mcp/pkg/types"
)

// Snapshot carries the product fields the order core reads at mutation time.
// It is taken once and never re-synced against the catalog.
type Snapshot struct {
	Name      string
	UnitPrice decimal.Decimal
}

// Resolver resolves a product id into a name/price snapshot. Pure read; no
// side effects; callable independently for each line item in a batch.
type Resolver interface {
	Resolve(ctx context.Context, productID int64) (Snapshot, error)
}

// Service implements Resolver and the product CRUD operations on top of the
// storage layer
type Service struct {
	storage storage.Storage
}

// New creates a new catalog Service
func New(store storage.Storage) *Service {
	return &Service{storage: store}
}

// Resolve looks up a product and returns its current name and unit price.
// Returns types.ErrProductNotFound when the product does not exist.
func (s *Service) Resolve(ctx context.Context, productID int64) (Snapshot, error) {
	product, err := s.storage.GetProduct(ctx, productID)
	if errors.Is(err, storage.ErrNotFound) {
		return Snapshot{}, types.ErrProductNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to resolve product %d: %w", productID, err)
	}
	return Snapshot{Name: product.Name, UnitPrice: product.UnitPrice}, nil
}

// CreateProduct validates and persists a new catalog product
func (s *Service) CreateProduct(ctx context.Context, product types.Product) (*types.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}

	row := storage.FromTypesProduct(product)
	if err := s.storage.CreateProduct(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	created := row.ToTypesProduct()
	return &created, nil
}

// GetProduct retrieves a single product by id
func (s *Service) GetProduct(ctx context.Context, productID int64) (*types.Product, error) {
	row, err := s.storage.GetProduct(ctx, productID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, types.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	product := row.ToTypesProduct()
	return &product, nil
}

// ListProducts returns all catalog products ordered by id
func (s *Service) ListProducts(ctx context.Context) ([]types.Product, error) {
	rows, err := s.storage.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]types.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.ToTypesProduct())
	}
	return products, nil
}

// UpdateProduct validates and persists changes to an existing product.
// Existing order line items keep their price snapshots; repricing never
// propagates into orders.
func (s *Service) UpdateProduct(ctx context.Context, product types.Product) (*types.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}

	row := storage.FromTypesProduct(product)
	err := s.storage.UpdateProduct(ctx, row)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, types.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	updated, err := s.storage.GetProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	result := updated.ToTypesProduct()
	return &result, nil
}

// DeleteProduct removes a product from the catalog. Line items referencing
// it are untouched.
func (s *Service) DeleteProduct(ctx context.Context, productID int64) error {
	err := s.storage.DeleteProduct(ctx, productID)
	if errors.Is(err, storage.ErrNotFound) {
		return types.ErrProductNotFound
	}
	return err
}
