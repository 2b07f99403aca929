package catalog

import (
	"math"
	"slices"
)

// SelectTabScope returns the product set a tab operates over.
//
// The favorites scope follows favoriteIDs order and drops ids with no matching
// product. The recent scope is the recently viewed list as given, minus
// excludeID when it is set. The result never repeats a product id.
func SelectTabScope(tab Tab, all []Product, favoriteIDs []string, recent []Product, excludeID string) []Product {
	switch tab {
	case TabFavorites:
		if len(favoriteIDs) == 0 || len(all) == 0 {
			return []Product{}
		}
		byID := make(map[string]Product, len(all))
		for _, p := range all {
			if _, ok := byID[p.ID]; !ok {
				byID[p.ID] = p
			}
		}
		out := make([]Product, 0, len(favoriteIDs))
		seen := make(map[string]struct{}, len(favoriteIDs))
		for _, id := range favoriteIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			p, ok := byID[id]
			if !ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, p)
		}
		return out
	case TabRecent:
		out := make([]Product, 0, len(recent))
		seen := make(map[string]struct{}, len(recent))
		for _, p := range recent {
			if excludeID != "" && p.ID == excludeID {
				continue
			}
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
		return out
	default:
		return uniqueByID(all)
	}
}

func uniqueByID(products []Product) []Product {
	out := make([]Product, 0, len(products))
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Categories returns the distinct non-empty categories of scope in ascending order.
func Categories(scope []Product) []string {
	set := make(map[string]struct{})
	for _, p := range scope {
		if p.Category == "" {
			continue
		}
		set[p.Category] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// PriceBounds returns floor of the lowest and ceiling of the highest price in
// scope, or FallbackPriceBounds when scope is empty.
func PriceBounds(scope []Product) PriceRange {
	if len(scope) == 0 {
		return FallbackPriceBounds
	}
	lo, hi := scope[0].Price, scope[0].Price
	for _, p := range scope[1:] {
		if p.Price < lo {
			lo = p.Price
		}
		if p.Price > hi {
			hi = p.Price
		}
	}
	return PriceRange{Min: math.Floor(lo), Max: math.Ceil(hi)}
}
