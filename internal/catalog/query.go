package catalog

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names used to carry State in a URL.
const (
	ParamSearch   = "q"
	ParamSort     = "sort"
	ParamCategory = "category"
	ParamTab      = "tab"
	ParamMin      = "min"
	ParamMax      = "max"
	ParamSize     = "size"
	ParamPage     = "page"
)

// ParseState reads a State from query values. Missing or malformed values
// take their defaults. Either price bound marks the range dirty; a missing
// bound is open and gets clamped to the scope bounds by Derive.
func ParseState(q url.Values) State {
	s := NewState()
	s.Search = q.Get(ParamSearch)
	if v := SortKey(strings.TrimSpace(q.Get(ParamSort))); v.Valid() {
		s.Sort = v
	}
	s.Category = q.Get(ParamCategory)
	if v := Tab(strings.TrimSpace(q.Get(ParamTab))); v.Valid() {
		s.Tab = v
	}

	lo, hasLo := parsePrice(q.Get(ParamMin))
	hi, hasHi := parsePrice(q.Get(ParamMax))
	if hasLo || hasHi {
		if !hasLo {
			lo = math.Inf(-1)
		}
		if !hasHi {
			hi = math.Inf(1)
		}
		s.Price = PriceRange{Min: lo, Max: hi}.ordered()
		s.PriceDirty = true
	}

	if n, err := strconv.Atoi(strings.TrimSpace(q.Get(ParamSize))); err == nil {
		s.PageSize = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(q.Get(ParamPage))); err == nil {
		s.Page = n
	}
	return s.normalized()
}

func parsePrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Values encodes s as query values, omitting fields at their defaults.
func (s State) Values() url.Values {
	q := url.Values{}
	if s.Search != "" {
		q.Set(ParamSearch, s.Search)
	}
	if s.Sort != "" && s.Sort != DefaultSort {
		q.Set(ParamSort, string(s.Sort))
	}
	if s.Category != "" {
		q.Set(ParamCategory, s.Category)
	}
	if s.Tab != "" && s.Tab != DefaultTab {
		q.Set(ParamTab, string(s.Tab))
	}
	if s.PriceDirty {
		if !math.IsInf(s.Price.Min, 0) {
			q.Set(ParamMin, strconvFloat(s.Price.Min))
		}
		if !math.IsInf(s.Price.Max, 0) {
			q.Set(ParamMax, strconvFloat(s.Price.Max))
		}
	}
	if s.PageSize != 0 && s.PageSize != DefaultPageSize {
		q.Set(ParamSize, strconv.Itoa(s.PageSize))
	}
	if s.Page > 1 {
		q.Set(ParamPage, strconv.Itoa(s.Page))
	}
	return q
}

// Encode returns the URL-encoded query string for s.
func (s State) Encode() string {
	return s.Values().Encode()
}

// WithPage returns a copy of s positioned at page n.
func (s State) WithPage(n int) State {
	s.SetPage(n)
	return s
}

func strconvFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
