package catalog

// Page is one page of results plus pagination metadata.
type Page struct {
	Items      []Product
	Page       int
	PageSize   int
	TotalPages int
	TotalCount int
	// From and To are 1-based positions of the first and last item shown, 0 when empty.
	From int
	To   int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

// Paginate slices results into the requested page. The page number is
// clamped into [1, TotalPages]; TotalPages is at least 1 even for no results.
func Paginate(results []Product, pageSize, page int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	n := len(results)
	totalPages := max(1, (n+pageSize-1)/pageSize)
	page = min(max(page, 1), totalPages)

	start := min((page-1)*pageSize, n)
	end := min(start+pageSize, n)

	items := results[start:end:end]
	if items == nil {
		items = []Product{}
	}
	out := Page{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalCount: n,
	}
	if end > start {
		out.From = start + 1
		out.To = end
	}
	return out
}
