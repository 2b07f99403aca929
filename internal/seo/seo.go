package seo

// Meta is the per-page head metadata rendered by the base layout.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Alternates  []Alternate
}

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
}

// Alternate is an hreflang link.
type Alternate struct {
	Lang string
	Href string
}
