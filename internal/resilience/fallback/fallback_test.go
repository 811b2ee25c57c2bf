package fallback

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/motorline/gateway/internal/core/domain"
	"github.com/motorline/gateway/internal/resilience/taxonomy"
)

type fakeCache struct {
	snapshots map[string][]byte
	err       error
}

func (c *fakeCache) GetSnapshot(ctx context.Context, operation string) ([]byte, bool, error) {
	if c.err != nil {
		return nil, false, c.err
	}
	raw, ok := c.snapshots[operation]
	return raw, ok, nil
}

func TestForKnownOperations(t *testing.T) {
	p := NewProvider(nil, nil)

	products, ok := p.For(context.Background(), "getProducts").([]domain.Product)
	if !ok || len(products) == 0 {
		t.Error("getProducts should resolve to sample products")
	}

	vendors, ok := p.For(context.Background(), "getVendors").([]domain.Vendor)
	if !ok || len(vendors) == 0 {
		t.Error("getVendors should resolve to sample vendors")
	}
}

func TestForUnknownOperationReturnsEmptyCollection(t *testing.T) {
	p := NewProvider(nil, nil)

	data := p.For(context.Background(), "doesNotExist")
	if data == nil {
		t.Fatal("For must never return nil")
	}
	if items, ok := data.([]any); !ok || len(items) != 0 {
		t.Errorf("unknown operation resolved to %#v, want empty collection", data)
	}
}

func TestLookupProducerErrorSwallowed(t *testing.T) {
	p := NewProvider(nil, nil)
	p.Register("flaky", func(ctx context.Context) (any, error) {
		return nil, errors.New("producer exploded")
	})

	data, ok := p.Lookup(context.Background(), "flaky")
	if ok || data != nil {
		t.Errorf("failing producer should yield no data, got %#v", data)
	}
}

func TestCachedSnapshotPreferredOverSamples(t *testing.T) {
	snapshot := []domain.Product{{ID: "cached-1", Title: "2020 Mazda 3"}}
	raw, _ := json.Marshal(snapshot)
	cache := &fakeCache{snapshots: map[string][]byte{"getProducts": raw}}

	p := NewProvider(cache, nil)
	data, ok := p.Lookup(context.Background(), "getProducts")
	if !ok {
		t.Fatal("expected data for getProducts")
	}
	products := data.([]domain.Product)
	if len(products) != 1 || products[0].ID != "cached-1" {
		t.Errorf("got %#v, want cached snapshot", products)
	}
}

func TestCacheFailureFallsBackToSamples(t *testing.T) {
	cache := &fakeCache{err: errors.New("redis down")}

	p := NewProvider(cache, nil)
	data, ok := p.Lookup(context.Background(), "getProducts")
	if !ok {
		t.Fatal("expected sample data despite cache failure")
	}
	if len(data.([]domain.Product)) != len(SampleProducts()) {
		t.Error("cache failure should fall back to embedded samples")
	}
}

func TestForEntry(t *testing.T) {
	p := NewProvider(nil, nil)

	emptyEntry := taxonomy.Entry{Code: "permission-denied", FallbackKey: "empty"}
	data := p.ForEntry(context.Background(), emptyEntry, "getProducts")
	if products, ok := data.([]domain.Product); !ok || len(products) != 0 {
		t.Errorf("empty fallback resolved to %#v, want empty product list", data)
	}

	cachedEntry := taxonomy.Entry{Code: "unavailable", FallbackKey: "cached"}
	data = p.ForEntry(context.Background(), cachedEntry, "getProducts")
	if products, ok := data.([]domain.Product); !ok || len(products) == 0 {
		t.Errorf("cached fallback resolved to %#v, want samples", data)
	}

	noFallback := taxonomy.Entry{Code: "not-found"}
	if data := p.ForEntry(context.Background(), noFallback, "getProducts"); data != nil {
		t.Errorf("entries without a fallback key must resolve to nil, got %#v", data)
	}
}

func TestPlaceholderImage(t *testing.T) {
	if PlaceholderImage == "" {
		t.Error("placeholder image reference must be set")
	}
}
