// Package catalog is the data-access facade for marketplace listings. Its
// CRUD logic is deliberately thin; every call goes through the retry
// executor so resilience policy stays in one place.
package catalog

import (
	"context"

	"github.com/motorline/gateway/internal/core/domain"
)

// Store is the narrow create/read/update/delete boundary to the backing
// document store.
type Store interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	Product(ctx context.Context, id string) (*domain.Product, error)
	Products(ctx context.Context) ([]domain.Product, error)
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	Vendors(ctx context.Context) ([]domain.Vendor, error)
}

// SnapshotWriter persists catalog snapshots for later fallback use.
// Implemented by the redis client; nil disables snapshotting.
type SnapshotWriter interface {
	SetSnapshot(ctx context.Context, operation string, data []byte) error
}
