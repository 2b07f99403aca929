package products

import "strings"

// ImageURL resolves a product image path against the product service base.
// Absolute and data URLs pass through; an empty path stays empty.
func ImageURL(base, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, "data:") {
		return raw
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		if strings.HasPrefix(raw, "/") {
			return raw
		}
		return "/" + raw
	}
	if strings.HasPrefix(raw, "/") {
		return base + raw
	}
	return base + "/" + raw
}
