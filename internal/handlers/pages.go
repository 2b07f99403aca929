package handlers

import (
	"html/template"

	"github.com/wasifsarwar/gocart/internal/nav"
	"github.com/wasifsarwar/gocart/internal/seo"
)

// PageData is the view model for every page rendered with the shared layout.
type PageData struct {
	Title string
	Lang  string
	SEO   seo.Meta
	// JSONLD holds serialized schema.org payloads for ld+json script tags.
	JSONLD []template.JS

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	Languages   []LanguageLink
	CSRFToken   string
	CartCount   int
	// Account is the signed-in user's display name; empty for guests.
	Account string
	Flash   *Flash

	// Per-page payload, one of the *View types in cmd/web.
	Content any
}

// LanguageLink switches the UI language while keeping the current URL.
type LanguageLink struct {
	Lang   string
	Href   string
	Active bool
}

// Flash is a one-shot banner shown above page content.
type Flash struct {
	Tone    string // "success", "error" or "info"
	Message string
}

// AddJSONLD appends a schema.org payload if it serialized.
func (p *PageData) AddJSONLD(v any) {
	if js := seo.JSON(v); js != "" {
		p.JSONLD = append(p.JSONLD, js)
	}
}
