package catalog

// Inputs are the collaborator-supplied values a view is derived from.
type Inputs struct {
	Catalog     Snapshot
	FavoriteIDs []string
	Recent      []Product
	// ExcludeID hides one product from the recent scope.
	ExcludeID string
	Lang      string
}

// View is everything the products page renders for one state.
type View struct {
	// State is the input state after reconciliation: price range tracked or
	// clamped to Bounds, page clamped to the result count.
	State      State
	Scope      []Product
	Categories []string
	Bounds     PriceRange
	Results    []Product
	Page       Page
	Tags       []FilterTag
}

// Empty reports whether the scope itself has no products.
func (v View) Empty() bool { return len(v.Scope) == 0 }

// Derive computes the view for s from scratch. It performs no I/O and keeps no memory
// between calls.
func Derive(s State, in Inputs) View {
	s = s.normalized()

	scope := SelectTabScope(s.Tab, in.Catalog.Products, in.FavoriteIDs, in.Recent, in.ExcludeID)
	bounds := PriceBounds(scope)
	if s.PriceDirty {
		s.Price = s.Price.clampTo(bounds)
	} else {
		s.Price = bounds
	}

	results := FilterAndSort(scope, Criteria{
		Search:     s.Search,
		Category:   s.Category,
		Price:      s.Price,
		PriceDirty: s.PriceDirty,
		Sort:       s.Sort,
		Lang:       in.Lang,
	})
	page := Paginate(results, s.PageSize, s.Page)
	s.Page = page.Page

	return View{
		State:      s,
		Scope:      scope,
		Categories: Categories(scope),
		Bounds:     bounds,
		Results:    results,
		Page:       page,
		Tags:       ActiveTags(s),
	}
}
