package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Criteria carries the filter and sort inputs of FilterAndSort.
type Criteria struct {
	Search     string
	Category   string
	Price      PriceRange
	PriceDirty bool
	Sort       SortKey
	// Lang selects the collation used for name and category ordering.
	Lang string
}

// FilterAndSort returns the products of scope that match every predicate in
// c, stably ordered by c.Sort. scope is not modified.
//
// The search term matches name, description or category case-insensitively.
// The category must match exactly when set. The price range only filters
// when PriceDirty is true.
func FilterAndSort(scope []Product, c Criteria) []Product {
	fold := cases.Fold()
	term := fold.String(c.Search)

	out := make([]Product, 0, len(scope))
	for _, p := range scope {
		if term != "" && !matchesSearch(fold, p, term) {
			continue
		}
		if c.Category != "" && p.Category != c.Category {
			continue
		}
		if c.PriceDirty && !c.Price.Contains(p.Price) {
			continue
		}
		out = append(out, p)
	}

	if cmpFn := comparator(c.Sort, c.Lang); cmpFn != nil {
		slices.SortStableFunc(out, cmpFn)
	}
	return out
}

func matchesSearch(fold cases.Caser, p Product, term string) bool {
	return strings.Contains(fold.String(p.Name), term) ||
		strings.Contains(fold.String(p.Description), term) ||
		strings.Contains(fold.String(p.Category), term)
}

// comparator returns nil for unknown keys, which keeps input order.
func comparator(key SortKey, lang string) func(a, b Product) int {
	switch key {
	case SortNameAsc:
		col := newCollator(lang)
		return func(a, b Product) int { return col.CompareString(a.Name, b.Name) }
	case SortNameDesc:
		col := newCollator(lang)
		return func(a, b Product) int { return col.CompareString(b.Name, a.Name) }
	case SortPriceAsc:
		return func(a, b Product) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceDesc:
		return func(a, b Product) int { return cmp.Compare(b.Price, a.Price) }
	case SortCategoryAsc:
		col := newCollator(lang)
		return func(a, b Product) int { return col.CompareString(a.Category, b.Category) }
	default:
		return nil
	}
}

// newCollator builds a fresh collator; a collate.Collator is not safe for concurrent use.
func newCollator(lang string) *collate.Collator {
	tag := language.English
	if lang != "" {
		if t, err := language.Parse(lang); err == nil {
			tag = t
		}
	}
	return collate.New(tag)
}
