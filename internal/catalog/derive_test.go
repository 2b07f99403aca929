package catalog

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDeriveTracksBoundsWhenClean(t *testing.T) {
	in := Inputs{Catalog: Snapshot{Products: sampleCatalog(), Version: 1}}
	v := Derive(NewState(), in)

	if v.State.Price != (PriceRange{Min: 50, Max: 1300}) {
		t.Fatalf("expected price to track scope, got %+v", v.State.Price)
	}
	if v.Bounds != v.State.Price {
		t.Fatalf("bounds %+v differ from clean range %+v", v.Bounds, v.State.Price)
	}
	if diff := cmp.Diff([]string{"Accessories", "Audio", "Electronics"}, v.Categories); diff != "" {
		t.Fatalf("categories (-want +got):\n%s", diff)
	}

	s := NewState()
	s.SetTab(TabFavorites)
	in.FavoriteIDs = []string{"2"}
	v = Derive(s, in)
	if v.State.Price != (PriceRange{Min: 200, Max: 200}) {
		t.Fatalf("expected price to follow the favorites scope, got %+v", v.State.Price)
	}
}

func TestDeriveClampsDirtyRange(t *testing.T) {
	s := NewState()
	s.SetPriceRange(10, 5000)
	v := Derive(s, Inputs{Catalog: Snapshot{Products: sampleCatalog()}})
	if v.State.Price != (PriceRange{Min: 50, Max: 1300}) {
		t.Fatalf("expected clamp into bounds, got %+v", v.State.Price)
	}
	if !v.State.PriceDirty {
		t.Fatalf("clamping must not clear the dirty flag")
	}

	s.SetPriceRange(100, 250)
	v = Derive(s, Inputs{Catalog: Snapshot{Products: sampleCatalog()}})
	if v.State.Price != (PriceRange{Min: 100, Max: 250}) {
		t.Fatalf("in-bounds range must be kept, got %+v", v.State.Price)
	}
	if diff := cmp.Diff([]string{"2"}, IDs(v.Results)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	s.SetPriceRange(5000, 9000)
	v = Derive(s, Inputs{Catalog: Snapshot{Products: sampleCatalog()}})
	if v.State.Price.Min > v.State.Price.Max {
		t.Fatalf("range out of order: %+v", v.State.Price)
	}
}

func TestDeriveClampsPage(t *testing.T) {
	s := NewState()
	s.SetPageSize(5)
	s.SetPage(40)
	v := Derive(s, Inputs{Catalog: Snapshot{Products: sampleCatalog()}})
	if v.State.Page != 1 || v.Page.Page != 1 {
		t.Fatalf("expected page 1, got state=%d page=%d", v.State.Page, v.Page.Page)
	}
	if len(v.Page.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(v.Page.Items))
	}
}

func TestDeriveEmptyScope(t *testing.T) {
	s := NewState()
	s.SetTab(TabRecent)
	v := Derive(s, Inputs{Catalog: Snapshot{Products: sampleCatalog()}})
	if !v.Empty() {
		t.Fatalf("expected empty scope")
	}
	if v.Bounds != FallbackPriceBounds {
		t.Fatalf("expected fallback bounds, got %+v", v.Bounds)
	}
	if v.Page.TotalPages != 1 || len(v.Page.Items) != 0 {
		t.Fatalf("unexpected page %+v", v.Page)
	}
}

func TestDeriveRecentExcludesCurrentProduct(t *testing.T) {
	all := sampleCatalog()
	s := NewState()
	s.SetTab(TabRecent)
	v := Derive(s, Inputs{
		Catalog:   Snapshot{Products: all},
		Recent:    []Product{all[1], all[0]},
		ExcludeID: "2",
	})
	if diff := cmp.Diff([]string{"1"}, IDs(v.Results)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestDeriveRecentTabAppliesSortKey(t *testing.T) {
	recent := []Product{{ID: "b", Name: "Zeta", Price: 1}, {ID: "a", Name: "Alpha", Price: 2}}
	s := NewState()
	s.SetTab(TabRecent)
	v := Derive(s, Inputs{Recent: recent})
	if diff := cmp.Diff([]string{"b", "a"}, IDs(v.Scope)); diff != "" {
		t.Fatalf("scope keeps recency order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, IDs(v.Results)); diff != "" {
		t.Fatalf("results follow the sort key (-want +got):\n%s", diff)
	}

	s.SetSort(SortPriceDesc)
	v = Derive(s, Inputs{Recent: recent})
	if diff := cmp.Diff([]string{"a", "b"}, IDs(v.Results)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestEngineMemoizes(t *testing.T) {
	e := NewEngine()
	in := Inputs{Catalog: Snapshot{Products: sampleCatalog(), Version: 1}, FavoriteIDs: []string{"1"}}
	s := NewState()

	first := e.Derive(s, in)
	second := e.Derive(s, in)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("(-first +second):\n%s", diff)
	}
	if hits, misses := e.Stats(); hits != 1 || misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}

	in.Catalog = Snapshot{Products: sampleCatalog()[:1], Version: 2}
	third := e.Derive(s, in)
	if len(third.Results) != 1 {
		t.Fatalf("new catalog version must recompute, got %v", IDs(third.Results))
	}

	in.FavoriteIDs = []string{"1", "3"}
	if _, misses := e.Stats(); misses != 2 {
		t.Fatalf("expected 2 misses, got %d", misses)
	}
	e.Derive(s, in)
	if _, misses := e.Stats(); misses != 3 {
		t.Fatalf("favorites change must recompute, misses=%d", misses)
	}
}

func TestEngineKeysOnEveryRecentField(t *testing.T) {
	e := NewEngine()
	s := NewState()
	s.SetTab(TabRecent)
	in := Inputs{Recent: []Product{{ID: "1", Name: "Keyboard", ImageURL: "/a.jpg"}}}
	e.Derive(s, in)

	in.Recent = []Product{{ID: "1", Name: "Keyboard", ImageURL: "/b.jpg"}}
	v := e.Derive(s, in)
	if got := v.Results[0].ImageURL; got != "/b.jpg" {
		t.Fatalf("stale image url %q", got)
	}
	if hits, misses := e.Stats(); hits != 0 || misses != 2 {
		t.Fatalf("expected 0 hits and 2 misses, got %d/%d", hits, misses)
	}
}

func TestEngineFavoriteIDsDoNotCollide(t *testing.T) {
	e := NewEngine()
	s := NewState()
	s.SetTab(TabFavorites)
	all := []Product{{ID: "a"}, {ID: "b"}, {ID: "a\x00b"}}
	first := e.Derive(s, Inputs{Catalog: Snapshot{Products: all, Version: 1}, FavoriteIDs: []string{"a", "b"}})
	second := e.Derive(s, Inputs{Catalog: Snapshot{Products: all, Version: 1}, FavoriteIDs: []string{"a\x00b"}})
	if len(first.Results) != 2 || len(second.Results) != 1 {
		t.Fatalf("got %v then %v", IDs(first.Results), IDs(second.Results))
	}
}

func TestEngineConcurrentCallers(t *testing.T) {
	e := NewEngine()
	in := Inputs{Catalog: Snapshot{Products: sampleCatalog(), Version: 7}}
	want := Derive(NewState(), in)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := NewState()
			if i%2 == 1 {
				s.SetSort(SortPriceDesc)
			}
			got := e.Derive(s, in)
			if i%2 == 0 && len(got.Results) != len(want.Results) {
				t.Errorf("unexpected results %v", IDs(got.Results))
			}
		}(i)
	}
	wg.Wait()
}
