package catalog

// TagKind identifies which filter an active-filter tag represents.
type TagKind string

const (
	TagSearch   TagKind = "search"
	TagCategory TagKind = "category"
	TagPrice    TagKind = "price"
	TagSort     TagKind = "sort"
)

// FilterTag describes one active, individually removable filter.
type FilterTag struct {
	Kind  TagKind
	Value string
	Price PriceRange
	Sort  SortKey
}

// ActiveTags lists the filters that differ from a fresh page visit, in display order.
func ActiveTags(s State) []FilterTag {
	var tags []FilterTag
	if s.Search != "" {
		tags = append(tags, FilterTag{Kind: TagSearch, Value: s.Search})
	}
	if s.Category != "" {
		tags = append(tags, FilterTag{Kind: TagCategory, Value: s.Category})
	}
	if s.PriceDirty {
		tags = append(tags, FilterTag{Kind: TagPrice, Price: s.Price})
	}
	if s.Sort != DefaultSort && s.Sort.Valid() {
		tags = append(tags, FilterTag{Kind: TagSort, Value: s.Sort.Label(), Sort: s.Sort})
	}
	return tags
}

// Without returns a copy of s with the filter of the given kind cleared.
func (s State) Without(kind TagKind) State {
	switch kind {
	case TagSearch:
		s.SetSearch("")
	case TagCategory:
		s.SetCategory("")
	case TagPrice:
		s.ClearPrice()
	case TagSort:
		s.SetSort(DefaultSort)
	}
	return s
}

// Cleared returns a copy of s after ClearAll.
func (s State) Cleared() State {
	s.ClearAll()
	return s
}
