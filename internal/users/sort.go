package users

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the user list ordering.
type SortKey string

const (
	SortNameAsc  SortKey = "name-asc"
	SortNameDesc SortKey = "name-desc"
	SortEmailAsc SortKey = "email-asc"
)

// DefaultSort is used when the requested key is unknown.
const DefaultSort = SortNameAsc

// SortKeys lists the keys in display order.
var SortKeys = []SortKey{SortNameAsc, SortNameDesc, SortEmailAsc}

// ParseSortKey maps raw to a known key, falling back to DefaultSort.
func ParseSortKey(raw string) SortKey {
	k := SortKey(raw)
	if slices.Contains(SortKeys, k) {
		return k
	}
	return DefaultSort
}

// Sort returns a stably sorted copy of list. Names compare as "first last",
// ignoring case under the collation of lang.
func Sort(list []User, key SortKey, lang string) []User {
	out := slices.Clone(list)
	tag := language.English
	if t, err := language.Parse(lang); err == nil {
		tag = t
	}
	col := collate.New(tag, collate.IgnoreCase)
	switch key {
	case SortNameDesc:
		slices.SortStableFunc(out, func(a, b User) int { return col.CompareString(b.FullName(), a.FullName()) })
	case SortEmailAsc:
		slices.SortStableFunc(out, func(a, b User) int { return col.CompareString(a.Email, b.Email) })
	default:
		slices.SortStableFunc(out, func(a, b User) int { return col.CompareString(a.FullName(), b.FullName()) })
	}
	return out
}
