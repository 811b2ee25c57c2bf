// Package fallback supplies substitute data for operations that failed, so
// callers can degrade gracefully instead of surfacing an error.
package fallback

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/motorline/gateway/internal/core/domain"
	"github.com/motorline/gateway/internal/resilience/taxonomy"
)

// PlaceholderImage is returned for any failed image load, regardless of
// which image failed.
const PlaceholderImage = "/assets/placeholder-vehicle.svg"

// Producer generates substitute data for one operation.
type Producer func(ctx context.Context) (any, error)

// Cache reads previously stored catalog snapshots. Implemented by the redis
// client; nil is allowed and skips the cache.
type Cache interface {
	GetSnapshot(ctx context.Context, operation string) ([]byte, bool, error)
}

// Provider maps operation names to substitute data sources: a cached
// snapshot when one exists, embedded samples otherwise.
type Provider struct {
	log      *slog.Logger
	cache    Cache
	registry map[string]Producer
}

// NewProvider creates a Provider with the built-in catalog operations
// registered. cache may be nil.
func NewProvider(cache Cache, log *slog.Logger) *Provider {
	if log == nil {
		log = slog.Default()
	}
	p := &Provider{
		log:      log,
		cache:    cache,
		registry: make(map[string]Producer),
	}
	p.Register("getProducts", p.snapshotOrSamples("getProducts", func() any { return SampleProducts() }))
	p.Register("getVendors", p.snapshotOrSamples("getVendors", func() any { return SampleVendors() }))
	p.Register("searchProducts", func(ctx context.Context) (any, error) {
		return []domain.Product{}, nil
	})
	return p
}

// Register adds or replaces the producer for an operation name.
func (p *Provider) Register(operation string, producer Producer) {
	p.registry[operation] = producer
}

// For returns substitute data for the named operation. Unknown operations
// resolve to an empty collection; For never returns nil.
func (p *Provider) For(ctx context.Context, operation string) any {
	if data, ok := p.Lookup(ctx, operation); ok {
		return data
	}
	return []any{}
}

// Lookup returns substitute data for the named operation and whether a
// producer is registered for it. A producer failure counts as no data: the
// error is logged and swallowed so it never masks the original failure.
func (p *Provider) Lookup(ctx context.Context, operation string) (any, bool) {
	producer, ok := p.registry[operation]
	if !ok {
		return nil, false
	}
	data, err := producer(ctx)
	if err != nil {
		p.log.Warn("Fallback producer failed", "operation", operation, "error", err)
		return nil, false
	}
	if data == nil {
		return nil, false
	}
	return data, true
}

// ForEntry resolves substitute data for a mapped taxonomy entry. Returns nil
// when the entry carries no fallback, when its producer fails, or when the
// fallback key is unrecognized.
func (p *Provider) ForEntry(ctx context.Context, entry taxonomy.Entry, operation string) any {
	switch entry.FallbackKey {
	case "":
		return nil
	case "empty":
		return emptyCollection(operation)
	case "cached":
		if data, ok := p.Lookup(ctx, operation); ok {
			return data
		}
		return nil
	default:
		p.log.Warn("Unknown fallback key", "key", entry.FallbackKey, "operation", operation)
		return nil
	}
}

// snapshotOrSamples builds a producer that prefers a cached snapshot and
// falls back to embedded sample data.
func (p *Provider) snapshotOrSamples(operation string, samples func() any) Producer {
	return func(ctx context.Context) (any, error) {
		if p.cache != nil {
			raw, found, err := p.cache.GetSnapshot(ctx, operation)
			if err != nil {
				p.log.Warn("Snapshot cache read failed", "operation", operation, "error", err)
			} else if found {
				var products []domain.Product
				if operation == "getVendors" {
					var vendors []domain.Vendor
					if err := json.Unmarshal(raw, &vendors); err == nil {
						return vendors, nil
					}
				} else if err := json.Unmarshal(raw, &products); err == nil {
					return products, nil
				}
				p.log.Warn("Discarding undecodable snapshot", "operation", operation)
			}
		}
		return samples(), nil
	}
}

// emptyCollection returns the zero-length collection appropriate for an
// operation.
func emptyCollection(operation string) any {
	switch operation {
	case "getVendors":
		return []domain.Vendor{}
	default:
		return []domain.Product{}
	}
}
