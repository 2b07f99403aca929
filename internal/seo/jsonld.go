package seo

import (
	"encoding/json"
	"html/template"
	"strconv"
)

// JSON marshals v to a compact JSON string suitable for a ld+json script tag.
// It returns an empty string on error.
func JSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b)
}

// WebSite returns a minimal WebSite schema with optional SearchAction.
func WebSite(name, url, searchActionURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if searchActionURL != "" {
		m["potentialAction"] = map[string]any{
			"@type":       "SearchAction",
			"target":      searchActionURL + "{search_term_string}",
			"query-input": "required name=search_term_string",
		}
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// ProductInfo is the subset of a catalog product the schema needs.
type ProductInfo struct {
	SKU         string
	Name        string
	Description string
	Category    string
	Price       float64
	URL         string
	ImageURL    string
}

// Product returns a product schema payload with a USD offer.
func Product(p ProductInfo) map[string]any {
	m := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Product",
		"name":        p.Name,
		"description": p.Description,
		"offers": map[string]any{
			"@type":         "Offer",
			"price":         strconv.FormatFloat(p.Price, 'f', 2, 64),
			"priceCurrency": "USD",
			"availability":  "https://schema.org/InStock",
		},
	}
	if p.SKU != "" {
		m["sku"] = p.SKU
	}
	if p.Category != "" {
		m["category"] = p.Category
	}
	if p.URL != "" {
		m["url"] = p.URL
	}
	if p.ImageURL != "" {
		m["image"] = p.ImageURL
	}
	return m
}

// ItemList returns an ItemList of product URLs, used on listing pages.
func ItemList(urls []string) map[string]any {
	el := make([]map[string]any, 0, len(urls))
	for i, u := range urls {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"url":      u,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "ItemList",
		"numberOfItems":   len(urls),
		"itemListElement": el,
	}
}
