// Package memory implements the catalog store in process memory, for demos
// and tests where no database is configured.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/motorline/gateway/internal/core/domain"
	"github.com/motorline/gateway/internal/resilience/taxonomy"
)

// CatalogStore is an in-memory catalog.Store.
type CatalogStore struct {
	mu       sync.RWMutex
	products map[string]domain.Product
	vendors  map[string]domain.Vendor
}

// NewCatalogStore creates an empty in-memory store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		products: make(map[string]domain.Product),
		vendors:  make(map[string]domain.Vendor),
	}
}

// Seed loads vendors and products, replacing existing entries with the same
// ids.
func (s *CatalogStore) Seed(products []domain.Product, vendors []domain.Vendor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		s.products[p.ID] = p
	}
	for _, v := range vendors {
		s.vendors[v.ID] = v
	}
}

func (s *CatalogStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if _, exists := s.products[p.ID]; exists {
		return &taxonomy.ProviderError{Code: "already-exists", Message: "product " + p.ID + " already exists"}
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.products[p.ID] = *p
	return nil
}

func (s *CatalogStore) Product(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, &taxonomy.ProviderError{Code: "not-found", Message: "product " + id + " does not exist"}
	}
	return &p, nil
}

func (s *CatalogStore) Products(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *CatalogStore) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	out := []domain.Product{}
	for _, p := range s.products {
		haystack := strings.ToLower(p.Title + " " + p.Make + " " + p.Model + " " + p.Category)
		if strings.Contains(haystack, q) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *CatalogStore) UpdateProduct(ctx context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ID]; !ok {
		return &taxonomy.ProviderError{Code: "not-found", Message: "product " + p.ID + " does not exist"}
	}
	p.UpdatedAt = time.Now()
	s.products[p.ID] = *p
	return nil
}

func (s *CatalogStore) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return &taxonomy.ProviderError{Code: "not-found", Message: "product " + id + " does not exist"}
	}
	delete(s.products, id)
	return nil
}

func (s *CatalogStore) Vendors(ctx context.Context) ([]domain.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Vendor, 0, len(s.vendors))
	for _, v := range s.vendors {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	return out, nil
}
