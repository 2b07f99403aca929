package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wasifsarwar/gocart/internal/format"
	handlersPkg "github.com/wasifsarwar/gocart/internal/handlers"
	"github.com/wasifsarwar/gocart/internal/i18n"
	"github.com/wasifsarwar/gocart/internal/markup"
	mw "github.com/wasifsarwar/gocart/internal/middleware"
	"github.com/wasifsarwar/gocart/internal/nav"
	"github.com/wasifsarwar/gocart/internal/observability"
	"github.com/wasifsarwar/gocart/internal/seo"
)

// viewSet owns the parsed templates. In dev mode they are reparsed on each render.
type viewSet struct {
	dir     string
	devMode bool
	funcs   template.FuncMap

	mu    sync.Mutex
	cache *template.Template
}

func newViewSet(dir string, devMode bool, bundle *i18n.Bundle) (*viewSet, error) {
	v := &viewSet{dir: dir, devMode: devMode, funcs: templateFuncs(bundle)}
	t, err := v.parse()
	if err != nil {
		return nil, err
	}
	v.cache = t
	return v, nil
}

func templateFuncs(bundle *i18n.Bundle) template.FuncMap {
	return template.FuncMap{
		"now": time.Now,
		"t":   bundle.T,
		"tf":  bundle.Tf,
		"currency": func(amount float64, lang string) string {
			return format.Currency(amount, lang)
		},
		"wholeCurrency": func(amount float64, lang string) string {
			return format.WholeCurrency(amount, lang)
		},
		"count": func(n int, lang string) string {
			return format.Count(n, lang)
		},
		"date": func(t time.Time, lang string) string {
			return format.Date(t, lang)
		},
		"markdown": markup.HTML,
		"plain":    markup.Plain,
		"add":      func(a, b int) int { return a + b },
		// results fragment URL for a /products state link
		"resultsHref": func(href string) string {
			return productsPath + "/results" + strings.TrimPrefix(href, productsPath)
		},
		"card": func(c ProductCard, lang, csrf string) map[string]any {
			return map[string]any{"Card": c, "Lang": lang, "CSRFToken": csrf}
		},
		"favButton": func(id string, favorite bool, lang, csrf string) map[string]any {
			return map[string]any{"ID": id, "Favorite": favorite, "Lang": lang, "CSRFToken": csrf}
		},
		"regField": func(name, kind string, view RegisterView) map[string]any {
			return map[string]any{"Name": name, "Type": kind, "View": view}
		},
	}
}

func (v *viewSet) parse() (*template.Template, error) {
	// ParseGlob doesn't support **, so walk the tree.
	var files []string
	if err := filepath.WalkDir(v.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", v.dir)
	}
	return template.New("_root").Funcs(v.funcs).ParseFiles(files...)
}

// clone returns an unexecuted copy of the template set, so a page can bind its own "content".
func (v *viewSet) clone() (*template.Template, error) {
	if v.devMode {
		t, err := v.parse()
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cache.Clone()
}

// renderPage executes the base layout with page_<name> as its content.
func (s *server) renderPage(w http.ResponseWriter, r *http.Request, name string, vm handlersPkg.PageData) {
	s.renderPageStatus(w, r, http.StatusOK, name, vm)
}

func (s *server) renderPageStatus(w http.ResponseWriter, r *http.Request, status int, name string, vm handlersPkg.PageData) {
	t, err := s.views.clone()
	if err == nil {
		_, err = t.New("content").Parse(`{{ template "page_` + name + `" . }}`)
	}
	if err != nil {
		s.templateError(w, r, name, err)
		return
	}
	s.execute(w, r, status, t, "base", vm)
}

// renderTemplate executes a single named fragment.
func (s *server) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	t, err := s.views.clone()
	if err != nil {
		s.templateError(w, r, name, err)
		return
	}
	s.execute(w, r, http.StatusOK, t, name, data)
}

func (s *server) execute(w http.ResponseWriter, r *http.Request, status int, t *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		s.templateError(w, r, name, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *server) templateError(w http.ResponseWriter, r *http.Request, name string, err error) {
	observability.FromContext(r.Context()).Error("render template", zap.String("template", name), zap.Error(err))
	mw.WriteError(w, r, http.StatusInternalServerError, "template error")
}

// basePage fills the layout fields shared by every page.
func (s *server) basePage(r *http.Request, titleKey, descKey, leafLabel string) handlersPkg.PageData {
	lang := mw.Lang(r)
	title := s.bundle.T(lang, titleKey)
	if leafLabel != "" {
		title = leafLabel
	}
	brand := s.bundle.T(lang, "brand.name")
	cartCount := s.cartStore(r).Count()

	vm := handlersPkg.PageData{
		Title:       title,
		Lang:        lang,
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path, map[string]int{"/cart": cartCount}),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path, leafLabel),
		Languages:   s.languageLinks(r, lang),
		CSRFToken:   mw.CSRFToken(r),
		CartCount:   cartCount,
		Account:     s.accountName(r),
	}
	vm.SEO.Title = title + " | " + brand
	vm.SEO.Description = s.bundle.T(lang, descKey)
	vm.SEO.Canonical = absoluteURL(r)
	vm.SEO.OG.URL = vm.SEO.Canonical
	vm.SEO.OG.Title = vm.SEO.Title
	vm.SEO.OG.Description = vm.SEO.Description
	vm.SEO.OG.Type = "website"
	vm.SEO.Alternates = buildAlternates(r, s.bundle.Supported())
	return vm
}

func (s *server) languageLinks(r *http.Request, active string) []handlersPkg.LanguageLink {
	var out []handlersPkg.LanguageLink
	for _, l := range s.bundle.Supported() {
		out = append(out, handlersPkg.LanguageLink{Lang: l, Href: withQuery(r.URL, "hl", l), Active: l == active})
	}
	return out
}

func withQuery(u *url.URL, key, value string) string {
	q := u.Query()
	q.Set(key, value)
	return u.Path + "?" + q.Encode()
}

// absoluteURL rebuilds the request URL without the hl override.
func absoluteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	q := r.URL.Query()
	q.Del("hl")
	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	return u.String()
}

func buildAlternates(r *http.Request, langs []string) []seo.Alternate {
	base := absoluteURL(r)
	out := make([]seo.Alternate, 0, len(langs))
	for _, l := range langs {
		sep := "?"
		if strings.Contains(base, "?") {
			sep = "&"
		}
		out = append(out, seo.Alternate{Lang: l, Href: base + sep + "hl=" + l})
	}
	return out
}
