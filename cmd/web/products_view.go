package main

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/wasifsarwar/gocart/internal/catalog"
	"github.com/wasifsarwar/gocart/internal/format"
	"github.com/wasifsarwar/gocart/internal/markup"
	mw "github.com/wasifsarwar/gocart/internal/middleware"
	"github.com/wasifsarwar/gocart/internal/products"
)

const productsPath = "/products"

// ProductsView aggregates everything the products page and its results fragment render.
type ProductsView struct {
	Lang      string
	CSRFToken string
	State     catalog.State
	// Query is the encoded state, pushed to the browser history by fragments.
	Query string
	Href  string

	Tabs        []TabOption
	SortOptions []SelectOption
	Categories  []SelectOption
	PageSizes   []SelectOption
	Bounds      catalog.PriceRange
	Tags        []TagView
	ClearHref   string

	Cards     []ProductCard
	Page      catalog.Page
	Pager     []PageLink
	PrevHref  string
	NextHref  string
	ScopeSize int
	// Empty is set when the tab scope itself has no products.
	Empty bool
	// NoMatches is set when the scope has products but the filters exclude all of them.
	NoMatches bool
	EmptyKey  string

	Loading bool
	Error   string
	// OOB is set on fragment renders so controls outside the results region update too.
	OOB bool
}

// TabOption is one tab of the scope switcher.
type TabOption struct {
	Value    catalog.Tab
	LabelKey string
	Count    int
	Href     string
	Active   bool
}

// SelectOption is a generic <option>.
type SelectOption struct {
	Value    string
	Label    string
	LabelKey string
	Selected bool
}

// TagView is an active filter chip with a link that removes it.
type TagView struct {
	Kind       catalog.TagKind
	LabelKey   string
	Value      string
	RemoveHref string
}

// ProductCard is one product in the results grid.
type ProductCard struct {
	ID        string
	Name      string
	Category  string
	Excerpt   string
	PriceText string
	ImageURL  string
	Href      string
	Favorite  bool
}

// PageLink is one numbered pager entry.
type PageLink struct {
	Number int
	Href   string
	Active bool
}

// buildProductsView derives the products view for the request's query state.
func (s *server) buildProductsView(r *http.Request, snap products.State) ProductsView {
	lang := mw.Lang(r)
	favs := s.favoritesStore(r).IDs()
	recents := s.recentStore(r).List()

	state := catalog.ParseState(r.URL.Query())
	view := s.engine.Derive(state, catalog.Inputs{
		Catalog:     snap.Snapshot(),
		FavoriteIDs: favs,
		Recent:      recents,
		Lang:        lang,
	})
	st := view.State

	vm := ProductsView{
		Lang:      lang,
		CSRFToken: mw.CSRFToken(r),
		State:     st,
		Query:     st.Encode(),
		Href:      stateHref(st),
		Bounds:    view.Bounds,
		ClearHref: stateHref(st.Cleared()),
		Page:      view.Page,
		ScopeSize: len(view.Scope),
		Empty:     view.Empty(),
		NoMatches: !view.Empty() && len(view.Results) == 0,
		Loading:   snap.Loading,
		Error:     snap.Err,
	}

	counts := map[catalog.Tab]int{
		catalog.TabAll:       len(snap.Products),
		catalog.TabFavorites: len(catalog.SelectTabScope(catalog.TabFavorites, snap.Products, favs, nil, "")),
		catalog.TabRecent:    len(catalog.SelectTabScope(catalog.TabRecent, nil, nil, recents, "")),
	}
	for _, tab := range catalog.Tabs {
		next := st
		next.SetTab(tab)
		vm.Tabs = append(vm.Tabs, TabOption{
			Value:    tab,
			LabelKey: "products.tab." + string(tab),
			Count:    counts[tab],
			Href:     stateHref(next),
			Active:   tab == st.Tab,
		})
	}

	for _, k := range catalog.SortKeys {
		vm.SortOptions = append(vm.SortOptions, SelectOption{
			Value:    string(k),
			Label:    k.Label(),
			LabelKey: "sort." + string(k),
			Selected: k == st.Sort,
		})
	}
	vm.Categories = append(vm.Categories, SelectOption{LabelKey: "products.category.all", Selected: st.Category == ""})
	for _, c := range view.Categories {
		vm.Categories = append(vm.Categories, SelectOption{Value: c, Label: c, Selected: c == st.Category})
	}
	for _, n := range catalog.PageSizes {
		vm.PageSizes = append(vm.PageSizes, SelectOption{
			Value:    strconv.Itoa(n),
			Label:    strconv.Itoa(n),
			Selected: n == st.PageSize,
		})
	}

	for _, tag := range view.Tags {
		tv := TagView{
			Kind:       tag.Kind,
			LabelKey:   "products.tag." + string(tag.Kind),
			Value:      tag.Value,
			RemoveHref: stateHref(st.Without(tag.Kind)),
		}
		switch tag.Kind {
		case catalog.TagPrice:
			tv.Value = format.WholeCurrency(tag.Price.Min, lang) + " - " + format.WholeCurrency(tag.Price.Max, lang)
		case catalog.TagSort:
			tv.Value = s.bundle.T(lang, "sort."+string(tag.Sort))
		}
		vm.Tags = append(vm.Tags, tv)
	}

	favSet := make(map[string]struct{}, len(favs))
	for _, id := range favs {
		favSet[id] = struct{}{}
	}
	for _, p := range view.Page.Items {
		_, fav := favSet[p.ID]
		vm.Cards = append(vm.Cards, s.productCard(p, lang, fav))
	}

	for n := 1; n <= view.Page.TotalPages; n++ {
		vm.Pager = append(vm.Pager, PageLink{Number: n, Href: stateHref(st.WithPage(n)), Active: n == view.Page.Page})
	}
	if view.Page.HasPrev() {
		vm.PrevHref = stateHref(st.WithPage(view.Page.Page - 1))
	}
	if view.Page.HasNext() {
		vm.NextHref = stateHref(st.WithPage(view.Page.Page + 1))
	}

	switch {
	case vm.Empty && st.Tab == catalog.TabFavorites:
		vm.EmptyKey = "products.empty.favorites"
	case vm.Empty && st.Tab == catalog.TabRecent:
		vm.EmptyKey = "products.empty.recent"
	case vm.Empty:
		vm.EmptyKey = "products.empty.all"
	case vm.NoMatches:
		vm.EmptyKey = "products.empty.filtered"
	}
	return vm
}

func (s *server) productCard(p catalog.Product, lang string, favorite bool) ProductCard {
	return ProductCard{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Excerpt:   excerpt(markup.Plain(p.Description), 120),
		PriceText: format.Currency(p.Price, lang),
		ImageURL:  products.ImageURL(s.imageBase, p.ImageURL),
		Href:      productsPath + "/" + url.PathEscape(p.ID),
		Favorite:  favorite,
	}
}

func stateHref(st catalog.State) string {
	if q := st.Encode(); q != "" {
		return productsPath + "?" + q
	}
	return productsPath
}

func excerpt(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
