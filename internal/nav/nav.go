package nav

import (
	"path"
	"strings"
)

// Item represents a top-level navigation item.
type Item struct {
	Path     string // e.g. "/products"
	LabelKey string // i18n key, e.g. "nav.products"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
	Badge    int
}

// Crumb represents a breadcrumb entry. If LabelKey is empty, use Label.
type Crumb struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/products", LabelKey: "nav.products"},
	{Path: "/cart", LabelKey: "nav.cart"},
	{Path: "/orders", LabelKey: "nav.orders"},
	{Path: "/users", LabelKey: "nav.users"},
}

// Build renders navigation items with active state given the current path. badges maps
// item paths to counters such as the cart quantity.
func Build(currentPath string, badges map[string]int) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:     it.Path,
			LabelKey: it.LabelKey,
			Active:   isActive(it.Path, currentPath),
			Badge:    badges[it.Path],
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs builds breadcrumb entries from the current path. The last crumb uses
// leafLabel when set (e.g. a product name instead of its id).
func Breadcrumbs(currentPath, leafLabel string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", LabelKey: "nav.home", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	clean := path.Clean(currentPath)
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")

	href := ""
	for i, seg := range parts {
		if seg == "" {
			continue
		}
		href += "/" + seg
		c := Crumb{Href: href, Label: titleFromSegment(seg), Active: i == len(parts)-1}
		if i == 0 {
			for _, it := range Main {
				if it.Path == href {
					c.LabelKey = it.LabelKey
					break
				}
			}
		}
		if c.Active && leafLabel != "" {
			c.LabelKey = ""
			c.Label = leafLabel
		}
		crumbs = append(crumbs, c)
	}
	return crumbs
}

func titleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	s := strings.ReplaceAll(seg, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
