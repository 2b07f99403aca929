package main

import (
	"net/http"

	"github.com/wasifsarwar/gocart/internal/catalog"
	mw "github.com/wasifsarwar/gocart/internal/middleware"
	"github.com/wasifsarwar/gocart/internal/seo"
)

const featuredCount = 4

// HomeView is the landing page payload.
type HomeView struct {
	Lang       string
	CSRFToken  string
	Featured   []ProductCard
	Categories []string
	Recent     []ProductCard
	Error      string
}

// HomeHandler renders the landing page.
func (s *server) HomeHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	snap := s.catalog.Current(r.Context())
	favs := s.favoritesStore(r)

	featured := catalog.FilterAndSort(snap.Products, catalog.Criteria{Sort: catalog.SortPriceDesc, Lang: lang})
	view := HomeView{
		Lang:       lang,
		CSRFToken:  mw.CSRFToken(r),
		Categories: catalog.Categories(snap.Products),
		Error:      snap.Err,
	}
	for _, p := range featured[:min(featuredCount, len(featured))] {
		view.Featured = append(view.Featured, s.productCard(p, lang, favs.IsFavorite(p.ID)))
	}
	for _, p := range s.recentStore(r).List() {
		view.Recent = append(view.Recent, s.productCard(p, lang, favs.IsFavorite(p.ID)))
	}

	vm := s.basePage(r, "home.title", "home.description", "")
	vm.Content = view
	base := absoluteBase(r)
	vm.AddJSONLD(seo.WebSite(s.bundle.T(lang, "brand.name"), base, base+productsPath+"?"+catalog.ParamSearch+"="))
	s.renderPage(w, r, "home", vm)
}
