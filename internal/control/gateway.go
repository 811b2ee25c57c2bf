// Package control wires the gateway's components together and manages their
// lifecycle.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/motorline/gateway/internal/catalog"
	"github.com/motorline/gateway/internal/core/config"
	"github.com/motorline/gateway/internal/core/domain"
	redisclient "github.com/motorline/gateway/internal/infra/redis"
	"github.com/motorline/gateway/internal/infra/storage/memory"
	"github.com/motorline/gateway/internal/infra/storage/postgres"
	"github.com/motorline/gateway/internal/monitor"
	"github.com/motorline/gateway/internal/resilience/fallback"
	"github.com/motorline/gateway/internal/resilience/retry"
)

// Gateway owns the wired application: store, monitor, executors, catalog
// service and the dashboard server.
type Gateway struct {
	cfg     *config.AppConfig
	log     *slog.Logger
	db      *postgres.DB
	cache   *redisclient.Client
	Monitor *monitor.Monitor
	Catalog *catalog.Service
	server  *monitor.Server
}

// New builds a Gateway from configuration. Postgres and redis are optional:
// without a database URL the catalog runs on the in-memory store seeded with
// sample data, and without redis the fallback provider serves embedded
// samples only.
func New(cfg *config.AppConfig) (*Gateway, error) {
	log := slog.Default()

	g := &Gateway{
		cfg:     cfg,
		log:     log,
		Monitor: monitor.New(monitor.WithLogger(log)),
	}

	var store catalog.Store
	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
		g.db = db
		store = postgres.NewCatalogStore(db)
		log.Info("Using PostgreSQL catalog store")
	} else {
		mem := memory.NewCatalogStore()
		mem.Seed(fallback.SampleProducts(), fallback.SampleVendors())
		store = mem
		log.Info("Using in-memory catalog store")
	}

	var cache *redisclient.Client
	if cfg.Redis.URL != "" {
		var err error
		cache, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			log.Warn("Failed to connect to Redis, snapshot cache disabled", "error", err)
		} else {
			g.cache = cache
		}
	}

	fallbacks := fallback.NewProvider(cacheOrNil(cache), log)

	policy := cfg.Retry.Policy()
	reads := retry.NewExecutor(policy, fallbacks, g.Monitor, retry.WithLogger(log))
	writes := retry.NewExecutor(domain.RetryPolicy{}, nil, g.Monitor, retry.WithLogger(log))

	g.Catalog = catalog.NewService(store, reads, writes, snapshotsOrNil(cache), log)
	g.server = monitor.NewServer(g.Monitor, cfg.Server.Port)

	return g, nil
}

// Start begins a monitored session and serves the dashboard endpoints.
func (g *Gateway) Start(ctx context.Context) error {
	g.Monitor.StartSession()

	go func() {
		defer monitor.Recover(g.Monitor, "dashboard server")
		if err := g.server.Start(); err != nil && err != http.ErrServerClosed {
			g.log.Error("Dashboard server failed", "error", err)
		}
	}()
	g.log.Info("Gateway started", "port", g.cfg.Server.Port)
	return nil
}

// Stop ends the session and shuts everything down.
func (g *Gateway) Stop(ctx context.Context) error {
	g.Monitor.EndSession()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := g.server.Stop(shutdownCtx); err != nil {
		g.log.Warn("Dashboard server shutdown failed", "error", err)
	}

	if g.cache != nil {
		_ = g.cache.Close()
	}
	if g.db != nil {
		_ = g.db.Close()
	}
	g.log.Info("Gateway stopped")
	return nil
}

// cacheOrNil avoids handing the fallback provider a typed nil interface.
func cacheOrNil(c *redisclient.Client) fallback.Cache {
	if c == nil {
		return nil
	}
	return c
}

func snapshotsOrNil(c *redisclient.Client) catalog.SnapshotWriter {
	if c == nil {
		return nil
	}
	return c
}
