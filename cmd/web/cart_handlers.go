package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	mw "github.com/wasifsarwar/gocart/internal/middleware"
	"github.com/wasifsarwar/gocart/internal/observability"
	"github.com/wasifsarwar/gocart/internal/orders"
	"github.com/wasifsarwar/gocart/internal/products"
)

// CartHandler renders the cart page.
func (s *server) CartHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	view := buildCartView(lang, s.imageBase, s.cartStore(r).Items())
	view.CSRFToken = mw.CSRFToken(r)

	vm := s.basePage(r, "cart.title", "cart.description", "")
	vm.SEO.Robots = "noindex"
	vm.Content = view
	s.renderPage(w, r, "cart", vm)
}

// CartAddHandler adds one unit of the posted product_id.
func (s *server) CartAddHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PostFormValue("product_id"))
	if id == "" {
		mw.WriteError(w, r, http.StatusBadRequest, "missing product_id")
		return
	}
	p, err := s.catalog.Product(r.Context(), id)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			mw.WriteError(w, r, http.StatusNotFound, "unknown product")
			return
		}
		observability.FromContext(r.Context()).Warn("cart add lookup failed", zap.String("product_id", id), zap.Error(err))
		mw.WriteError(w, r, http.StatusBadGateway, "product service unavailable")
		return
	}
	store := s.cartStore(r)
	store.Add(p)
	if mw.IsHTMX(r.Context()) {
		s.renderTemplate(w, r, "frag_cart_badge", map[string]any{"Count": store.Count(), "Lang": mw.Lang(r)})
		return
	}
	redirectBack(w, r, "/cart")
}

// CartUpdateHandler sets a line's quantity; quantities below 1 remove it.
func (s *server) CartUpdateHandler(w http.ResponseWriter, r *http.Request) {
	qty, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantity")))
	if err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "invalid quantity")
		return
	}
	s.cartStore(r).UpdateQuantity(chi.URLParam(r, "id"), qty)
	s.afterCartChange(w, r)
}

// CartRemoveHandler drops one line.
func (s *server) CartRemoveHandler(w http.ResponseWriter, r *http.Request) {
	s.cartStore(r).Remove(chi.URLParam(r, "id"))
	s.afterCartChange(w, r)
}

// CartClearHandler empties the cart.
func (s *server) CartClearHandler(w http.ResponseWriter, r *http.Request) {
	s.cartStore(r).Clear()
	s.afterCartChange(w, r)
}

func (s *server) afterCartChange(w http.ResponseWriter, r *http.Request) {
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	view := buildCartView(mw.Lang(r), s.imageBase, s.cartStore(r).Items())
	view.CSRFToken = mw.CSRFToken(r)
	view.OOB = true
	s.renderTemplate(w, r, "frag_cart_body", view)
}

// CheckoutHandler places an order for the cart contents and clears the cart on success.
func (s *server) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	logger := observability.FromContext(r.Context())
	store := s.cartStore(r)
	items := store.Items()

	view := buildCartView(lang, s.imageBase, items)
	view.CSRFToken = mw.CSRFToken(r)
	status := http.StatusOK

	order, err := s.orders.CreateOrder(r.Context(), orders.CreateOrderRequest{
		UserID: mw.GetSession(r).ShopperID(),
		Items:  orderItems(items),
	})
	switch {
	case errors.Is(err, orders.ErrInvalidOrder):
		view.Error = s.bundle.T(lang, "cart.checkout.empty")
		status = http.StatusUnprocessableEntity
	case err != nil:
		logger.Warn("checkout failed", zap.Error(err))
		view.Error = s.bundle.T(lang, "cart.checkout.failed")
		status = http.StatusBadGateway
	default:
		store.Clear()
		logger.Info("order placed", zap.String("order_id", order.ID), zap.Int("items", order.ItemCount()))
		placed := buildOrderView(lang, order)
		view = buildCartView(lang, s.imageBase, nil)
		view.CSRFToken = mw.CSRFToken(r)
		view.Placed = &placed
	}

	if mw.IsHTMX(r.Context()) {
		// htmx skips swapping error statuses by default; the body carries the error
		view.OOB = true
		s.renderTemplate(w, r, "frag_cart_body", view)
		return
	}
	vm := s.basePage(r, "cart.title", "cart.description", "")
	vm.SEO.Robots = "noindex"
	vm.Content = view
	s.renderPageStatus(w, r, status, "cart", vm)
}

// OrdersHandler lists the shopper's orders, newest first.
func (s *server) OrdersHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	view := OrdersView{Lang: lang, SignedIn: mw.UserFromContext(r.Context()) != nil}
	list, err := s.orders.ListByUser(r.Context(), mw.GetSession(r).ShopperID())
	if err != nil {
		observability.FromContext(r.Context()).Warn("list orders failed", zap.Error(err))
		view.Error = s.bundle.T(lang, "orders.failed")
	}
	for _, o := range list {
		view.Orders = append(view.Orders, buildOrderView(lang, o))
	}
	view.Empty = len(view.Orders) == 0 && view.Error == ""

	vm := s.basePage(r, "orders.title", "orders.description", "")
	vm.SEO.Robots = "noindex"
	vm.Content = view
	s.renderPage(w, r, "orders", vm)
}
