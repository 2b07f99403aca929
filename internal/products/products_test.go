package products

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wasifsarwar/gocart/internal/catalog"
)

func TestClientRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/products":
			fmt.Fprint(w, `[{"product_id":"1","name":" Keyboard ","description":"d","price":50,"category":"Accessories"},{"product_id":"2","name":"Headphones","price":-3,"category":"Audio"}]`)
		case "/products/2":
			fmt.Fprint(w, `{"product_id":"2","name":"Headphones","price":200,"category":"Audio","image_url":"/img/2.png"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	require.False(t, c.Offline())

	list, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Keyboard", list[0].Name)
	require.Zero(t, list[1].Price)

	p, err := c.GetProduct(context.Background(), "2")
	require.NoError(t, err)
	require.Equal(t, "/img/2.png", p.ImageURL)

	_, err = c.GetProduct(context.Background(), "9")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClientRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListProducts(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 500")
	require.Contains(t, err.Error(), "database down")
}

func TestClientOfflineFixtures(t *testing.T) {
	c := NewClient("")
	require.True(t, c.Offline())

	list, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, list)
	for _, p := range list {
		require.NotEmpty(t, p.ID)
		require.NotEmpty(t, p.Name)
	}

	list[0].Name = "mutated"
	again, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, "mutated", again[0].Name)

	p, err := c.GetProduct(context.Background(), list[1].ID)
	require.NoError(t, err)
	require.Equal(t, list[1].ID, p.ID)

	_, err = c.GetProduct(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestImageURL(t *testing.T) {
	tests := []struct {
		base, raw, want string
	}{
		{"http://api:8080", "", ""},
		{"http://api:8080", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"http://api:8080", "data:image/png;base64,xyz", "data:image/png;base64,xyz"},
		{"http://api:8080/", "/images/a.png", "http://api:8080/images/a.png"},
		{"http://api:8080", "images/a.png", "http://api:8080/images/a.png"},
		{"", "images/a.png", "/images/a.png"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ImageURL(tt.base, tt.raw), "base=%q raw=%q", tt.base, tt.raw)
	}
}

type fakeSource struct {
	mu    sync.Mutex
	calls atomic.Int32
	list  []catalog.Product
	err   error
	gate  chan struct{}
}

func (f *fakeSource) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]catalog.Product(nil), f.list...), nil
}

func (f *fakeSource) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := catalog.Find(f.list, id); ok {
		return p, nil
	}
	return catalog.Product{}, ErrNotFound
}

func (f *fakeSource) set(list []catalog.Product, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list, f.err = list, err
}

func TestProviderCachesWithinTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{list: []catalog.Product{{ID: "1", Name: "A"}}}
	p := NewProvider(src, WithCacheTTL(time.Minute), WithProviderClock(func() time.Time { return now }))

	st := p.Current(context.Background())
	require.Len(t, st.Products, 1)
	require.Equal(t, uint64(1), st.Version)
	require.Empty(t, st.Err)
	require.False(t, st.Loading)

	p.Current(context.Background())
	require.Equal(t, int32(1), src.calls.Load())
}

func TestProviderKeepsStaleProductsOnError(t *testing.T) {
	src := &fakeSource{list: []catalog.Product{{ID: "1", Name: "A"}}}
	p := NewProvider(src)

	first := p.Refetch(context.Background())
	require.Len(t, first.Products, 1)

	src.set(nil, errors.New("products: HTTP error: status 503"))
	failed := p.Refetch(context.Background())
	require.Equal(t, "products: HTTP error: status 503", failed.Err)
	require.Len(t, failed.Products, 1)
	require.Equal(t, first.Version, failed.Version)

	src.set([]catalog.Product{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}, nil)
	ok := p.Refetch(context.Background())
	require.Empty(t, ok.Err)
	require.Len(t, ok.Products, 2)
	require.Equal(t, first.Version+1, ok.Version)
}

func TestProviderCoalescesRefetch(t *testing.T) {
	src := &fakeSource{list: []catalog.Product{{ID: "1", Name: "A"}}, gate: make(chan struct{})}
	p := NewProvider(src)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Refetch(context.Background())
		}()
	}
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	require.Equal(t, int32(1), src.calls.Load())
	require.Equal(t, uint64(1), p.Current(context.Background()).Version)
}

func TestProviderRevalidatesInBackground(t *testing.T) {
	var mu sync.Mutex
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	src := &fakeSource{list: []catalog.Product{{ID: "1", Name: "A"}}}
	p := NewProvider(src, WithCacheTTL(time.Minute), WithProviderClock(clock))
	p.Current(context.Background())

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()
	src.set([]catalog.Product{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}, nil)

	st := p.Current(context.Background())
	require.NotEmpty(t, st.Products)
	require.Eventually(t, func() bool {
		return len(p.Current(context.Background()).Products) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestProviderLoadingSettlesAfterRefresh(t *testing.T) {
	var mu sync.Mutex
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	src := &fakeSource{list: []catalog.Product{{ID: "1", Name: "A"}}}
	p := NewProvider(src, WithCacheTTL(time.Minute), WithProviderClock(clock))
	p.Current(context.Background())

	for round := 0; round < 20; round++ {
		mu.Lock()
		now = now.Add(2 * time.Minute)
		mu.Unlock()

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if i%2 == 0 {
					p.Refetch(context.Background())
					return
				}
				p.Current(context.Background())
			}(i)
		}
		wg.Wait()
		p.Refetch(context.Background())
		require.False(t, p.Current(context.Background()).Loading, "round %d", round)
	}
}

func TestProviderStaleReadReportsLoading(t *testing.T) {
	var mu sync.Mutex
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	src := &fakeSource{list: []catalog.Product{{ID: "1", Name: "A"}}}
	p := NewProvider(src, WithCacheTTL(time.Minute), WithProviderClock(clock))
	p.Current(context.Background())

	src.gate = make(chan struct{})
	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	st := p.Current(context.Background())
	require.True(t, st.Loading)
	require.Len(t, st.Products, 1)

	close(src.gate)
	require.Eventually(t, func() bool {
		return !p.Current(context.Background()).Loading
	}, time.Second, 5*time.Millisecond)
}

func TestProviderProductLookup(t *testing.T) {
	src := &fakeSource{list: []catalog.Product{{ID: "1", Name: "A"}}}
	p := NewProvider(src)

	got, err := p.Product(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "A", got.Name)

	_, err = p.Product(context.Background(), "2")
	require.ErrorIs(t, err, ErrNotFound)
}
