// Package markup renders product descriptions written in Markdown to sanitized HTML.
package markup

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	policy = newDescriptionPolicy()
)

func newDescriptionPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("p", "span", "ul", "ol", "li")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// HTML converts Markdown src to sanitized HTML. Conversion errors fall back to
// the escaped source text.
func HTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(strings.TrimSpace(policy.Sanitize(buf.String())))
}

// Plain strips Markdown and HTML from src, for meta descriptions and card excerpts.
func Plain(src string) string {
	html := HTML(src)
	text := bluemonday.StrictPolicy().Sanitize(string(html))
	return strings.Join(strings.Fields(text), " ")
}
