package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/motorline/gateway/internal/core/domain"
	"github.com/motorline/gateway/internal/infra/storage/memory"
	"github.com/motorline/gateway/internal/monitor"
	"github.com/motorline/gateway/internal/resilience/fallback"
	"github.com/motorline/gateway/internal/resilience/retry"
	"github.com/motorline/gateway/internal/resilience/taxonomy"
)

func noSleep(ctx context.Context, d time.Duration) error { return ctx.Err() }

type unavailableStore struct {
	*memory.CatalogStore
	listCalls   int
	createCalls int
}

func (s *unavailableStore) Products(ctx context.Context) ([]domain.Product, error) {
	s.listCalls++
	return nil, &taxonomy.ProviderError{Code: "firestore/unavailable", Message: "store down"}
}

func (s *unavailableStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	s.createCalls++
	return &taxonomy.ProviderError{Code: "firestore/unavailable", Message: "store down"}
}

type fakeSnapshots struct {
	writes map[string][]byte
}

func (f *fakeSnapshots) SetSnapshot(ctx context.Context, operation string, data []byte) error {
	if f.writes == nil {
		f.writes = make(map[string][]byte)
	}
	f.writes[operation] = data
	return nil
}

func newService(store Store, m *monitor.Monitor, snapshots SnapshotWriter) *Service {
	provider := fallback.NewProvider(nil, nil)
	reads := retry.NewExecutor(
		domain.RetryPolicy{MaxRetries: 1, RetryDelay: time.Millisecond, FallbackEnabled: true},
		provider, m,
		retry.WithSleeper(noSleep),
	)
	writes := retry.NewExecutor(domain.RetryPolicy{}, nil, m, retry.WithSleeper(noSleep))
	return NewService(store, reads, writes, snapshots, nil)
}

func TestProductsRecoversWithFallbackData(t *testing.T) {
	store := &unavailableStore{CatalogStore: memory.NewCatalogStore()}
	m := monitor.New()
	m.StartSession()
	svc := newService(store, m, nil)

	products, outcome, err := svc.Products(context.Background())
	if err != nil {
		t.Fatalf("Products returned error %v, want fallback recovery", err)
	}
	if outcome != retry.OutcomeRecovered {
		t.Errorf("outcome = %v, want recovered", outcome)
	}
	if len(products) != len(fallback.SampleProducts()) {
		t.Errorf("got %d products, want sample set", len(products))
	}
	if store.listCalls != 2 {
		t.Errorf("store called %d times, want 2 (one retry)", store.listCalls)
	}
	if total := m.GetErrorSummary().TotalErrors; total != 2 {
		t.Errorf("monitor recorded %d errors, want one per failed attempt (2)", total)
	}
}

func TestProductsWritesSnapshotOnSuccess(t *testing.T) {
	store := memory.NewCatalogStore()
	store.Seed(fallback.SampleProducts(), fallback.SampleVendors())
	snapshots := &fakeSnapshots{}
	svc := newService(store, monitor.New(), snapshots)

	products, outcome, err := svc.Products(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if outcome != retry.OutcomeOK {
		t.Errorf("outcome = %v, want ok", outcome)
	}
	if len(products) == 0 {
		t.Fatal("expected seeded products")
	}
	if _, ok := snapshots.writes["getProducts"]; !ok {
		t.Error("successful reads should refresh the fallback snapshot")
	}
}

func TestProductsNoSnapshotWhenRecovered(t *testing.T) {
	store := &unavailableStore{CatalogStore: memory.NewCatalogStore()}
	snapshots := &fakeSnapshots{}
	svc := newService(store, monitor.New(), snapshots)

	_, _, err := svc.Products(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots.writes) != 0 {
		t.Error("fallback data must not be written back as a snapshot")
	}
}

func TestCreateProductNotRetried(t *testing.T) {
	store := &unavailableStore{CatalogStore: memory.NewCatalogStore()}
	svc := newService(store, monitor.New(), nil)

	err := svc.CreateProduct(context.Background(), &domain.Product{Title: "2018 Ford F-150"})
	var ufe *retry.UserFacingError
	if !errors.As(err, &ufe) {
		t.Fatalf("err = %v, want *retry.UserFacingError", err)
	}
	if store.createCalls != 1 {
		t.Errorf("create called %d times, want 1 (writes are never retried)", store.createCalls)
	}
}

func TestProductNotFoundSurfacesUserMessage(t *testing.T) {
	svc := newService(memory.NewCatalogStore(), monitor.New(), nil)

	_, err := svc.Product(context.Background(), "missing")
	var ufe *retry.UserFacingError
	if !errors.As(err, &ufe) {
		t.Fatalf("err = %v, want *retry.UserFacingError", err)
	}
	if ufe.Code != "not-found" {
		t.Errorf("Code = %q, want not-found", ufe.Code)
	}
}

func TestSearchProductsAgainstMemoryStore(t *testing.T) {
	store := memory.NewCatalogStore()
	store.Seed(fallback.SampleProducts(), fallback.SampleVendors())
	svc := newService(store, monitor.New(), nil)

	results, outcome, err := svc.SearchProducts(context.Background(), "camry")
	if err != nil {
		t.Fatal(err)
	}
	if outcome != retry.OutcomeOK {
		t.Errorf("outcome = %v, want ok", outcome)
	}
	if len(results) != 1 {
		t.Errorf("got %d results for camry, want 1", len(results))
	}
}
