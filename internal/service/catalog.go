package service

import (
	"context"
	"fmt"

	"github.com/dinedesk-lite/api/internal/database"
)

// CatalogStore defines the DB methods needed to read the product catalog.
// Satisfied by *database.Queries; narrow interface for testability.
type CatalogStore interface {
	ListProducts(ctx context.Context) ([]database.Product, error)
}

// ProductCatalog is the read side of the catalog used by order builders.
type ProductCatalog struct {
	store CatalogStore
}

// NewProductCatalog creates a new ProductCatalog.
func NewProductCatalog(store CatalogStore) *ProductCatalog {
	return &ProductCatalog{store: store}
}

// Products returns every product in catalog order.
func (c *ProductCatalog) Products(ctx context.Context) ([]Product, error) {
	rows, err := c.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %w", ErrUnavailable, err)
	}
	products := make([]Product, len(rows))
	for i, row := range rows {
		products[i] = ProductFromRow(row)
	}
	return products, nil
}
