package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/motorline/gateway/internal/core/domain"
	"github.com/motorline/gateway/internal/resilience/taxonomy"
)

// CatalogStore implements catalog.Store on PostgreSQL. All errors cross the
// boundary as taxonomy.ProviderError so the classifier can map them.
type CatalogStore struct {
	db *DB
}

// NewCatalogStore creates a store backed by db.
func NewCatalogStore(db *DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO products (id, title, category, make, model, year, price_cents, vendor_id, image_url, created_at, updated_at)
		VALUES (:id, :title, :category, :make, :model, :year, :price_cents, :vendor_id, :image_url, :created_at, :updated_at)`,
		p)
	return translate(err)
}

func (s *CatalogStore) Product(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1`, id)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *CatalogStore) Products(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	err := s.db.SelectContext(ctx, &products, `SELECT * FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (s *CatalogStore) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	products := []domain.Product{}
	pattern := "%" + query + "%"
	err := s.db.SelectContext(ctx, &products, `
		SELECT * FROM products
		WHERE title ILIKE $1 OR make ILIKE $1 OR model ILIKE $1 OR category ILIKE $1
		ORDER BY created_at DESC`,
		pattern)
	if err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (s *CatalogStore) UpdateProduct(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now()
	res, err := s.db.NamedExecContext(ctx, `
		UPDATE products
		SET title = :title, category = :category, make = :make, model = :model,
		    year = :year, price_cents = :price_cents, vendor_id = :vendor_id,
		    image_url = :image_url, updated_at = :updated_at
		WHERE id = :id`,
		p)
	if err != nil {
		return translate(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &taxonomy.ProviderError{Code: "not-found", Message: "product " + p.ID + " does not exist"}
	}
	return nil
}

func (s *CatalogStore) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &taxonomy.ProviderError{Code: "not-found", Message: "product " + id + " does not exist"}
	}
	return nil
}

func (s *CatalogStore) Vendors(ctx context.Context) ([]domain.Vendor, error) {
	vendors := []domain.Vendor{}
	err := s.db.SelectContext(ctx, &vendors, `SELECT * FROM vendors ORDER BY rating DESC`)
	if err != nil {
		return nil, translate(err)
	}
	return vendors, nil
}

// translate maps driver errors onto the provider error shape the classifier
// understands.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &taxonomy.ProviderError{Code: "not-found", Message: err.Error()}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return &taxonomy.ProviderError{Code: "already-exists", Message: pqErr.Message}
		case "42501": // insufficient_privilege
			return &taxonomy.ProviderError{Code: "permission-denied", Message: pqErr.Message}
		case "53300", "57P03": // too_many_connections, cannot_connect_now
			return &taxonomy.ProviderError{Code: "unavailable", Message: pqErr.Message}
		case "53400": // configuration_limit_exceeded
			return &taxonomy.ProviderError{Code: "resource-exhausted", Message: pqErr.Message}
		}
		return &taxonomy.ProviderError{Code: string(pqErr.Code), Message: pqErr.Message}
	}

	// Dial and transport failures have no code; the classifier's network
	// detection handles them.
	return err
}
