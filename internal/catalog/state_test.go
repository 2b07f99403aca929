package catalog

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSettersResetPage(t *testing.T) {
	setters := map[string]func(*State){
		"search":    func(s *State) { s.SetSearch("lap") },
		"sort":      func(s *State) { s.SetSort(SortPriceAsc) },
		"category":  func(s *State) { s.SetCategory("Audio") },
		"tab":       func(s *State) { s.SetTab(TabFavorites) },
		"price":     func(s *State) { s.SetPriceRange(10, 20) },
		"price min": func(s *State) { s.SetPriceMin(5) },
		"price max": func(s *State) { s.SetPriceMax(500) },
		"clear":     func(s *State) { s.ClearPrice() },
		"page size": func(s *State) { s.SetPageSize(25) },
		"clear all": func(s *State) { s.ClearAll() },
	}
	for name, set := range setters {
		t.Run(name, func(t *testing.T) {
			s := NewState()
			s.SetPage(4)
			set(&s)
			if s.Page != 1 {
				t.Fatalf("expected page reset to 1, got %d", s.Page)
			}
		})
	}
}

func TestSetPageKeepsFilters(t *testing.T) {
	s := NewState()
	s.SetSearch("lap")
	s.SetPage(3)
	if s.Page != 3 || s.Search != "lap" {
		t.Fatalf("unexpected state %+v", s)
	}
	s.SetPage(0)
	if s.Page != 1 {
		t.Fatalf("expected page floor of 1, got %d", s.Page)
	}
}

func TestTabSwitchPreservesFilters(t *testing.T) {
	s := NewState()
	s.SetSearch("o")
	s.SetSort(SortPriceDesc)
	s.SetCategory("Audio")
	s.SetPriceRange(10, 300)
	s.SetTab(TabRecent)

	want := State{
		Search:     "o",
		Sort:       SortPriceDesc,
		Category:   "Audio",
		Tab:        TabRecent,
		Price:      PriceRange{Min: 10, Max: 300},
		PriceDirty: true,
		PageSize:   DefaultPageSize,
		Page:       1,
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestClearAllKeepsTabAndPageSize(t *testing.T) {
	s := NewState()
	s.SetTab(TabFavorites)
	s.SetPageSize(50)
	s.SetSearch("x")
	s.SetSort(SortCategoryAsc)
	s.SetCategory("Audio")
	s.SetPriceRange(1, 2)
	s.ClearAll()

	if s.Tab != TabFavorites || s.PageSize != 50 {
		t.Fatalf("tab or page size reset: %+v", s)
	}
	if s.Search != "" || s.Sort != DefaultSort || s.Category != "" || s.PriceDirty {
		t.Fatalf("filters not cleared: %+v", s)
	}
}

func TestPriceSettersKeepOrder(t *testing.T) {
	s := NewState()
	s.SetPriceRange(500, 100)
	if s.Price != (PriceRange{Min: 100, Max: 500}) {
		t.Fatalf("expected swapped range, got %+v", s.Price)
	}
	s.SetPriceMin(900)
	if s.Price != (PriceRange{Min: 500, Max: 500}) {
		t.Fatalf("min must not pass max, got %+v", s.Price)
	}
	s.SetPriceMax(10)
	if s.Price != (PriceRange{Min: 500, Max: 500}) {
		t.Fatalf("max must not pass min, got %+v", s.Price)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	s := NewState()
	s.SetSort("random")
	s.SetTab("wishlist")
	s.SetPageSize(7)
	if s.Sort != DefaultSort || s.Tab != DefaultTab || s.PageSize != DefaultPageSize {
		t.Fatalf("unexpected state %+v", s)
	}
}

func TestActiveTagsAndRemoval(t *testing.T) {
	s := NewState()
	if tags := ActiveTags(s); len(tags) != 0 {
		t.Fatalf("fresh state has tags: %+v", tags)
	}
	s.SetSearch("lap")
	s.SetCategory("Electronics")
	s.SetPriceRange(10, 20)
	s.SetSort(SortNameDesc)

	var kinds []TagKind
	for _, tag := range ActiveTags(s) {
		kinds = append(kinds, tag.Kind)
	}
	if diff := cmp.Diff([]TagKind{TagSearch, TagCategory, TagPrice, TagSort}, kinds); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if tags := ActiveTags(s); tags[3].Value != "Name (Z-A)" {
		t.Fatalf("unexpected sort label %q", tags[3].Value)
	}

	if got := s.Without(TagCategory); got.Category != "" || got.Search != "lap" {
		t.Fatalf("category removal touched other filters: %+v", got)
	}
	if got := s.Without(TagPrice); got.PriceDirty {
		t.Fatalf("price tag not removed: %+v", got)
	}
	if got := s.Without(TagSort); got.Sort != DefaultSort {
		t.Fatalf("sort tag not removed: %+v", got)
	}
	if got := s.Cleared(); len(ActiveTags(got)) != 0 {
		t.Fatalf("clear-all left tags: %+v", ActiveTags(got))
	}
}

func TestParseStateDefaults(t *testing.T) {
	if diff := cmp.Diff(NewState(), ParseState(url.Values{})); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	junk := url.Values{
		ParamSort: {"cheapest"},
		ParamTab:  {"cart"},
		ParamSize: {"12"},
		ParamPage: {"-4"},
		ParamMin:  {"NaN"},
		ParamMax:  {"abc"},
	}
	if diff := cmp.Diff(NewState(), ParseState(junk)); diff != "" {
		t.Fatalf("junk values (-want +got):\n%s", diff)
	}
}

func TestStateQueryRoundTrip(t *testing.T) {
	s := NewState()
	s.SetSearch("head phones")
	s.SetSort(SortPriceAsc)
	s.SetCategory("Audio & Video")
	s.SetTab(TabFavorites)
	s.SetPriceRange(12.5, 300)
	s.SetPageSize(5)
	s.SetPage(3)

	parsed := ParseState(s.Values())
	if diff := cmp.Diff(s, parsed); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if NewState().Encode() != "" {
		t.Fatalf("default state must encode to an empty query, got %q", NewState().Encode())
	}
}

func TestParseStateOpenPriceBound(t *testing.T) {
	s := ParseState(url.Values{ParamMin: {"100"}})
	if !s.PriceDirty {
		t.Fatalf("a single bound must mark the range dirty")
	}
	v := Derive(s, Inputs{Catalog: Snapshot{Products: sampleCatalog()}})
	if v.State.Price != (PriceRange{Min: 100, Max: 1300}) {
		t.Fatalf("expected open max clamped to bounds, got %+v", v.State.Price)
	}
	if diff := cmp.Diff([]string{"2", "3"}, IDs(v.Results)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}
