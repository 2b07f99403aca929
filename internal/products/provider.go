// Package products supplies the catalog snapshot to the storefront: a client
// for the product service plus a cached provider with manual refetch.
package products

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/wasifsarwar/gocart/internal/catalog"
)

const (
	defaultCacheTTL     = 2 * time.Minute
	defaultFetchTimeout = 10 * time.Second
	refreshKey          = "catalog"
)

// Source is the product service as the provider sees it.
type Source interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
}

// State is what the provider currently knows about the catalog.
type State struct {
	Products []catalog.Product
	Version  uint64
	// Loading is set when a refresh is in flight and Products predates it.
	Loading bool
	// Err is the message of the most recent failed fetch, empty after a success.
	Err       string
	FetchedAt time.Time
}

// Snapshot returns the products as an engine snapshot.
func (s State) Snapshot() catalog.Snapshot {
	return catalog.Snapshot{Products: s.Products, Version: s.Version}
}

// Provider caches the catalog and refreshes it when the cache TTL lapses or on
// demand. A failed refresh keeps the previous products and records the error.
type Provider struct {
	src    Source
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	group singleflight.Group

	mu          sync.RWMutex
	products    []catalog.Product
	version     uint64
	err         string
	attemptedAt time.Time
	fetchedAt   time.Time
	refreshing  bool
}

// ProviderOption customises a Provider.
type ProviderOption func(*Provider)

// WithCacheTTL sets how long a fetch result is served before refreshing.
func WithCacheTTL(d time.Duration) ProviderOption {
	return func(p *Provider) {
		if d > 0 {
			p.ttl = d
		}
	}
}

// WithLogger sets the provider logger.
func WithLogger(l *zap.Logger) ProviderOption {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithProviderClock overrides the time source (tests).
func WithProviderClock(now func() time.Time) ProviderOption {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProvider wraps src.
func NewProvider(src Source, opts ...ProviderOption) *Provider {
	p := &Provider{
		src:    src,
		ttl:    defaultCacheTTL,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Current returns the cached state. With no products yet it fetches and waits.
// With stale products it starts a background refresh and returns immediately
// with Loading set.
func (p *Provider) Current(ctx context.Context) State {
	p.mu.RLock()
	stale := p.attemptedAt.IsZero() || !p.now().Before(p.attemptedAt.Add(p.ttl))
	empty := len(p.products) == 0
	p.mu.RUnlock()

	if !stale {
		return p.state()
	}
	if empty {
		return p.Refetch(ctx)
	}

	p.group.DoChan(refreshKey, func() (any, error) {
		bg, cancel := context.WithTimeout(context.Background(), defaultFetchTimeout)
		defer cancel()
		p.fetch(bg)
		return nil, nil
	})
	st := p.state()
	st.Loading = true
	return st
}

// Refetch fetches the catalog now and waits for the result. Concurrent calls share one fetch.
func (p *Provider) Refetch(ctx context.Context) State {
	ch := p.group.DoChan(refreshKey, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultFetchTimeout)
		defer cancel()
		p.fetch(fctx)
		return nil, nil
	})
	select {
	case <-ch:
	case <-ctx.Done():
	}
	return p.state()
}

// Product returns one product, preferring the cached catalog.
func (p *Provider) Product(ctx context.Context, id string) (catalog.Product, error) {
	p.mu.RLock()
	prod, ok := catalog.Find(p.products, id)
	p.mu.RUnlock()
	if ok {
		return prod, nil
	}
	return p.src.GetProduct(ctx, id)
}

// fetch runs inside the singleflight call, so refreshing is only ever set by
// the fetch that will clear it.
func (p *Provider) fetch(ctx context.Context) {
	p.mu.Lock()
	p.refreshing = true
	p.mu.Unlock()

	start := p.now()
	list, err := p.src.ListProducts(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshing = false
	p.attemptedAt = p.now()
	if err != nil {
		p.err = err.Error()
		p.logger.Warn("catalog fetch failed",
			zap.Error(err),
			zap.Int("stale_products", len(p.products)),
		)
		return
	}
	p.products = list
	p.version++
	p.err = ""
	p.fetchedAt = p.attemptedAt
	p.logger.Debug("catalog fetched",
		zap.Int("products", len(list)),
		zap.Uint64("version", p.version),
		zap.Duration("elapsed", p.now().Sub(start)),
	)
}

func (p *Provider) state() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return State{
		Products:  p.products,
		Version:   p.version,
		Loading:   p.refreshing,
		Err:       p.err,
		FetchedAt: p.fetchedAt,
	}
}
