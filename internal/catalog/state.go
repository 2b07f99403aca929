package catalog

import "slices"

// SortKey selects one of the result orderings.
type SortKey string

const (
	SortNameAsc     SortKey = "name-asc"
	SortNameDesc    SortKey = "name-desc"
	SortPriceAsc    SortKey = "price-asc"
	SortPriceDesc   SortKey = "price-desc"
	SortCategoryAsc SortKey = "category-asc"
)

// SortKeys lists the orderings in the order the sort control shows them.
var SortKeys = []SortKey{SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc, SortCategoryAsc}

var sortLabels = map[SortKey]string{
	SortNameAsc:     "Name (A-Z)",
	SortNameDesc:    "Name (Z-A)",
	SortPriceAsc:    "Price (Low to High)",
	SortPriceDesc:   "Price (High to Low)",
	SortCategoryAsc: "Category (A-Z)",
}

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	_, ok := sortLabels[k]
	return ok
}

// Label is the untranslated display name of the ordering.
func (k SortKey) Label() string {
	if l, ok := sortLabels[k]; ok {
		return l
	}
	return string(k)
}

// Tab is one of the mutually exclusive product-set views.
type Tab string

const (
	TabAll       Tab = "all"
	TabFavorites Tab = "favorites"
	TabRecent    Tab = "recent"
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabAll, TabFavorites, TabRecent}

// Valid reports whether t is a known tab.
func (t Tab) Valid() bool {
	return t == TabAll || t == TabFavorites || t == TabRecent
}

const (
	DefaultSort     = SortNameAsc
	DefaultTab      = TabAll
	DefaultPageSize = 15
	// MaxRecentItems caps the recently viewed list.
	MaxRecentItems = 8
)

// PageSizes enumerates the selectable page sizes.
var PageSizes = []int{5, 10, 15, 25, 50}

// FallbackPriceBounds is reported when the scope has no products to measure.
var FallbackPriceBounds = PriceRange{Min: 0, Max: 1000}

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min float64
	Max float64
}

// Contains reports whether price lies within the range, both ends inclusive.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// ordered returns r with Min <= Max.
func (r PriceRange) ordered() PriceRange {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

// clampTo pulls both ends of r into bounds without otherwise resetting them.
func (r PriceRange) clampTo(bounds PriceRange) PriceRange {
	return PriceRange{
		Min: min(max(r.Min, bounds.Min), bounds.Max),
		Max: min(max(r.Max, bounds.Min), bounds.Max),
	}.ordered()
}

// State is the transient view state of the products page. Mutate it only
// through the setters so the page-reset rules hold.
type State struct {
	Search     string
	Sort       SortKey
	Category   string
	Tab        Tab
	Price      PriceRange
	PriceDirty bool
	PageSize   int
	Page       int
}

// NewState returns the state of a fresh page visit.
func NewState() State {
	return State{
		Sort:     DefaultSort,
		Tab:      DefaultTab,
		Price:    FallbackPriceBounds,
		PageSize: DefaultPageSize,
		Page:     1,
	}
}

func (s *State) SetSearch(term string) {
	s.Search = term
	s.Page = 1
}

// SetSort falls back to DefaultSort for unknown keys.
func (s *State) SetSort(k SortKey) {
	if !k.Valid() {
		k = DefaultSort
	}
	s.Sort = k
	s.Page = 1
}

// SetCategory selects a category; the empty string removes the filter.
func (s *State) SetCategory(category string) {
	s.Category = category
	s.Page = 1
}

// SetTab switches the product-set view. The other filters carry over.
func (s *State) SetTab(t Tab) {
	if !t.Valid() {
		t = DefaultTab
	}
	s.Tab = t
	s.Page = 1
}

// SetPriceRange stores a user-adjusted range and marks it dirty.
func (s *State) SetPriceRange(lo, hi float64) {
	s.Price = PriceRange{Min: lo, Max: hi}.ordered()
	s.PriceDirty = true
	s.Page = 1
}

// SetPriceMin moves the lower handle; it cannot pass the upper one.
func (s *State) SetPriceMin(v float64) {
	s.SetPriceRange(min(v, s.Price.Max), s.Price.Max)
}

// SetPriceMax moves the upper handle; it cannot pass the lower one.
func (s *State) SetPriceMax(v float64) {
	s.SetPriceRange(s.Price.Min, max(v, s.Price.Min))
}

// ClearPrice returns the range to auto-tracking the scope bounds.
func (s *State) ClearPrice() {
	s.PriceDirty = false
	s.Page = 1
}

// SetPageSize falls back to DefaultPageSize for sizes outside PageSizes.
func (s *State) SetPageSize(n int) {
	if !slices.Contains(PageSizes, n) {
		n = DefaultPageSize
	}
	s.PageSize = n
	s.Page = 1
}

// SetPage moves to page n. The upper bound is enforced by Derive.
func (s *State) SetPage(n int) {
	s.Page = max(n, 1)
}

// ClearAll resets search, sort, category and price. Tab and page size stay.
func (s *State) ClearAll() {
	s.Search = ""
	s.Sort = DefaultSort
	s.Category = ""
	s.PriceDirty = false
	s.Page = 1
}

// normalized repairs values that did not come through the setters.
func (s State) normalized() State {
	if !s.Sort.Valid() {
		s.Sort = DefaultSort
	}
	if !s.Tab.Valid() {
		s.Tab = DefaultTab
	}
	if !slices.Contains(PageSizes, s.PageSize) {
		s.PageSize = DefaultPageSize
	}
	if s.Page < 1 {
		s.Page = 1
	}
	s.Price = s.Price.ordered()
	return s
}
