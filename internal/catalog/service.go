package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/motorline/gateway/internal/core/domain"
	"github.com/motorline/gateway/internal/resilience/retry"
)

// Service wraps a Store with the gateway's resilience policy. List reads are
// retried and may resolve to fallback data; writes run without retries since
// they are not idempotent.
type Service struct {
	store     Store
	reads     *retry.Executor
	writes    *retry.Executor
	snapshots SnapshotWriter
	log       *slog.Logger
}

// NewService creates a catalog service. reads carries the configured retry
// policy; writes should be a zero-retry, no-fallback executor. snapshots may
// be nil.
func NewService(store Store, reads, writes *retry.Executor, snapshots SnapshotWriter, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:     store,
		reads:     reads,
		writes:    writes,
		snapshots: snapshots,
		log:       log,
	}
}

// Products lists all products. The returned outcome tells the caller whether
// the data came from the store or from fallback.
func (s *Service) Products(ctx context.Context) ([]domain.Product, retry.Outcome, error) {
	res, err := s.reads.Execute(ctx, domain.NewOperationContext("getProducts"), func(ctx context.Context) (any, error) {
		return s.store.Products(ctx)
	})
	if err != nil {
		return nil, 0, err
	}
	products, err := asProducts(res.Value)
	if err != nil {
		return nil, 0, err
	}
	if res.Outcome == retry.OutcomeOK {
		s.writeSnapshot(ctx, "getProducts", products)
	}
	return products, res.Outcome, nil
}

// SearchProducts lists products matching a free-text query.
func (s *Service) SearchProducts(ctx context.Context, query string) ([]domain.Product, retry.Outcome, error) {
	opCtx := domain.NewOperationContext("searchProducts")
	opCtx.Metadata = map[string]any{"query": query}

	res, err := s.reads.Execute(ctx, opCtx, func(ctx context.Context) (any, error) {
		return s.store.SearchProducts(ctx, query)
	})
	if err != nil {
		return nil, 0, err
	}
	products, err := asProducts(res.Value)
	if err != nil {
		return nil, 0, err
	}
	return products, res.Outcome, nil
}

// Product fetches a single listing by id.
func (s *Service) Product(ctx context.Context, id string) (*domain.Product, error) {
	opCtx := domain.NewOperationContext("getProduct")
	opCtx.Metadata = map[string]any{"id": id}

	res, err := s.reads.Execute(ctx, opCtx, func(ctx context.Context) (any, error) {
		return s.store.Product(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	p, ok := res.Value.(*domain.Product)
	if !ok {
		return nil, fmt.Errorf("unexpected product payload %T", res.Value)
	}
	return p, nil
}

// Vendors lists all vendors.
func (s *Service) Vendors(ctx context.Context) ([]domain.Vendor, retry.Outcome, error) {
	res, err := s.reads.Execute(ctx, domain.NewOperationContext("getVendors"), func(ctx context.Context) (any, error) {
		return s.store.Vendors(ctx)
	})
	if err != nil {
		return nil, 0, err
	}
	vendors, ok := res.Value.([]domain.Vendor)
	if !ok {
		return nil, 0, fmt.Errorf("unexpected vendor payload %T", res.Value)
	}
	if res.Outcome == retry.OutcomeOK {
		if raw, err := json.Marshal(vendors); err == nil && s.snapshots != nil {
			if err := s.snapshots.SetSnapshot(ctx, "getVendors", raw); err != nil {
				s.log.Warn("Failed to write vendor snapshot", "error", err)
			}
		}
	}
	return vendors, res.Outcome, nil
}

// CreateProduct stores a new listing. Not retried: creates are not
// idempotent.
func (s *Service) CreateProduct(ctx context.Context, p *domain.Product) error {
	opCtx := domain.NewOperationContext("createProduct")
	_, err := s.writes.Execute(ctx, opCtx, func(ctx context.Context) (any, error) {
		return nil, s.store.CreateProduct(ctx, p)
	})
	return err
}

// UpdateProduct updates an existing listing.
func (s *Service) UpdateProduct(ctx context.Context, p *domain.Product) error {
	opCtx := domain.NewOperationContext("updateProduct")
	opCtx.Metadata = map[string]any{"id": p.ID}
	_, err := s.writes.Execute(ctx, opCtx, func(ctx context.Context) (any, error) {
		return nil, s.store.UpdateProduct(ctx, p)
	})
	return err
}

// DeleteProduct removes a listing.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	opCtx := domain.NewOperationContext("deleteProduct")
	opCtx.Metadata = map[string]any{"id": id}
	_, err := s.writes.Execute(ctx, opCtx, func(ctx context.Context) (any, error) {
		return nil, s.store.DeleteProduct(ctx, id)
	})
	return err
}

func (s *Service) writeSnapshot(ctx context.Context, operation string, products []domain.Product) {
	if s.snapshots == nil {
		return
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := s.snapshots.SetSnapshot(ctx, operation, raw); err != nil {
		s.log.Warn("Failed to write catalog snapshot", "operation", operation, "error", err)
	}
}

func asProducts(v any) ([]domain.Product, error) {
	products, ok := v.([]domain.Product)
	if !ok {
		return nil, fmt.Errorf("unexpected catalog payload %T", v)
	}
	return products, nil
}
