package main

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/wasifsarwar/gocart/internal/catalog"
	"github.com/wasifsarwar/gocart/internal/format"
	"github.com/wasifsarwar/gocart/internal/markup"
	mw "github.com/wasifsarwar/gocart/internal/middleware"
	"github.com/wasifsarwar/gocart/internal/observability"
	"github.com/wasifsarwar/gocart/internal/products"
	"github.com/wasifsarwar/gocart/internal/seo"
)

// ProductsHandler renders the full products page.
func (s *server) ProductsHandler(w http.ResponseWriter, r *http.Request) {
	if mw.IsHTMX(r.Context()) && r.Header.Get("HX-Target") == "product-results" {
		s.ProductsResultsFrag(w, r)
		return
	}
	view := s.buildProductsView(r, s.catalog.Current(r.Context()))

	vm := s.basePage(r, "products.title", "products.description", "")
	vm.Content = view
	vm.SEO.Canonical = absoluteBase(r) + view.Href
	vm.SEO.OG.URL = vm.SEO.Canonical
	if view.State.Search != "" || view.State.Page > 1 {
		vm.SEO.Robots = "noindex,follow"
	}
	base := absoluteBase(r)
	vm.AddJSONLD(seo.WebSite(s.bundle.T(vm.Lang, "brand.name"), base, base+productsPath+"?"+catalog.ParamSearch+"="))
	urls := make([]string, 0, len(view.Cards))
	for _, c := range view.Cards {
		urls = append(urls, base+c.Href)
	}
	vm.AddJSONLD(seo.ItemList(urls))

	s.renderPage(w, r, "products", vm)
}

// ProductsResultsFrag renders the results region for htmx and pushes the state URL.
func (s *server) ProductsResultsFrag(w http.ResponseWriter, r *http.Request) {
	view := s.buildProductsView(r, s.catalog.Current(r.Context()))
	view.OOB = true
	mw.PushURL(w, r, view.Href)
	s.renderTemplate(w, r, "frag_product_results", view)
}

// ProductsRefetchHandler forces a catalog fetch, for the Retry button.
func (s *server) ProductsRefetchHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.catalog.Refetch(r.Context())
	if snap.Err != "" {
		observability.FromContext(r.Context()).Info("catalog refetch failed", zap.String("error", snap.Err))
	}
	// keep the caller's view state; it arrives as the query of the current page
	if cur := r.Header.Get("HX-Current-URL"); cur != "" {
		if u, err := url.Parse(cur); err == nil && u.Path == productsPath {
			r.URL.RawQuery = u.RawQuery
		}
	} else if ref := r.FormValue("return"); ref != "" {
		r.URL.RawQuery = strings.TrimPrefix(ref, "?")
	}
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, stateHref(catalog.ParseState(r.URL.Query())), http.StatusSeeOther)
		return
	}
	view := s.buildProductsView(r, snap)
	view.OOB = true
	s.renderTemplate(w, r, "frag_product_results", view)
}

// ProductDetailView is the payload of the product detail page.
type ProductDetailView struct {
	Product     catalog.Product
	Description template.HTML
	PriceText   string
	ImageURL    string
	Favorite    bool
	InCart      int
	Recent      []ProductCard
	RecentMax   int
	CSRFToken   string
	Lang        string
}

// ProductDetailHandler renders one product and records it as recently viewed.
func (s *server) ProductDetailHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.catalog.Product(r.Context(), id)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, products.ErrNotFound) {
			status = http.StatusNotFound
		} else {
			observability.FromContext(r.Context()).Warn("product lookup failed", zap.String("product_id", id), zap.Error(err))
		}
		vm := s.basePage(r, "product.missing.title", "product.missing.description", "")
		vm.SEO.Robots = "noindex"
		vm.Content = map[string]any{"ID": id, "Status": status}
		s.renderPageStatus(w, r, status, "product_missing", vm)
		return
	}

	lang := mw.Lang(r)
	recents := s.recentStore(r).Add(p)
	rail := catalog.SelectTabScope(catalog.TabRecent, nil, nil, recents, p.ID)
	favs := s.favoritesStore(r)

	view := ProductDetailView{
		Product:     p,
		Description: markup.HTML(p.Description),
		PriceText:   format.Currency(p.Price, lang),
		ImageURL:    products.ImageURL(s.imageBase, p.ImageURL),
		Favorite:    favs.IsFavorite(p.ID),
		RecentMax:   s.recentStore(r).MaxItems(),
		CSRFToken:   mw.CSRFToken(r),
		Lang:        lang,
	}
	for _, it := range s.cartStore(r).Items() {
		if it.ID == p.ID {
			view.InCart = it.Quantity
		}
	}
	for _, rp := range rail {
		view.Recent = append(view.Recent, s.productCard(rp, lang, favs.IsFavorite(rp.ID)))
	}

	vm := s.basePage(r, "products.title", "products.description", p.Name)
	vm.Content = view
	vm.SEO.Description = excerpt(markup.Plain(p.Description), 160)
	vm.SEO.OG.Description = vm.SEO.Description
	vm.SEO.OG.Type = "product"
	vm.SEO.OG.Image = view.ImageURL
	base := absoluteBase(r)
	vm.AddJSONLD(seo.Product(seo.ProductInfo{
		SKU:         p.ID,
		Name:        p.Name,
		Description: vm.SEO.Description,
		Category:    p.Category,
		Price:       p.Price,
		URL:         base + r.URL.Path,
		ImageURL:    view.ImageURL,
	}))
	crumbs := make([]seo.BreadcrumbItem, 0, len(vm.Breadcrumbs))
	for _, c := range vm.Breadcrumbs {
		name := c.Label
		if c.LabelKey != "" {
			name = s.bundle.T(lang, c.LabelKey)
		}
		crumbs = append(crumbs, seo.BreadcrumbItem{Name: name, Item: base + c.Href})
	}
	vm.AddJSONLD(seo.BreadcrumbList(crumbs))

	s.renderPage(w, r, "product", vm)
}

// FavoriteToggleHandler flips one product's favorite flag.
func (s *server) FavoriteToggleHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	favs := s.favoritesStore(r)
	on := favs.Toggle(id)
	if mw.IsHTMX(r.Context()) {
		s.renderTemplate(w, r, "frag_favorite_button", map[string]any{
			"ID":        id,
			"Favorite":  on,
			"Lang":      mw.Lang(r),
			"CSRFToken": mw.CSRFToken(r),
		})
		return
	}
	redirectBack(w, r, productsPath)
}

// FavoritesClearHandler removes every favorite.
func (s *server) FavoritesClearHandler(w http.ResponseWriter, r *http.Request) {
	s.favoritesStore(r).Clear()
	s.afterScopeChange(w, r)
}

// RecentClearHandler empties the recently viewed list.
func (s *server) RecentClearHandler(w http.ResponseWriter, r *http.Request) {
	s.recentStore(r).Clear()
	s.afterScopeChange(w, r)
}

// afterScopeChange re-renders the results region for htmx callers, else redirects back.
func (s *server) afterScopeChange(w http.ResponseWriter, r *http.Request) {
	if mw.IsHTMX(r.Context()) {
		if cur := r.Header.Get("HX-Current-URL"); cur != "" {
			if u, err := url.Parse(cur); err == nil && u.Path == productsPath {
				r.URL.RawQuery = u.RawQuery
			}
		}
		s.ProductsResultsFrag(w, r)
		return
	}
	redirectBack(w, r, productsPath)
}

// redirectBack sends non-htmx form posts back to the same-origin referer, or fallback.
func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	target := fallback
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" && (ref.Host == "" || ref.Host == r.Host) {
		target = ref.RequestURI()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func absoluteBase(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
