package main

import (
	"net/url"

	"github.com/wasifsarwar/gocart/internal/cart"
	"github.com/wasifsarwar/gocart/internal/format"
	"github.com/wasifsarwar/gocart/internal/orders"
	"github.com/wasifsarwar/gocart/internal/products"
)

// CartView aggregates the cart page and its fragments.
type CartView struct {
	Lang      string
	CSRFToken string
	Items     []CartLine
	Empty     bool
	Count     int
	Total     float64
	TotalText string
	// Placed is the order just created by checkout, shown as a confirmation.
	Placed *OrderView
	Error  string
	// OOB refreshes the header badge alongside a fragment swap.
	OOB bool
}

// CartLine is one row of the cart table.
type CartLine struct {
	ID            string
	Name          string
	Category      string
	Href          string
	ImageURL      string
	Quantity      int
	UnitPriceText string
	LineTotalText string
}

func buildCartView(lang, imageBase string, items []cart.Item) CartView {
	view := CartView{
		Lang:  lang,
		Items: make([]CartLine, 0, len(items)),
		Empty: len(items) == 0,
		Count: cart.Count(items),
		Total: cart.Total(items),
	}
	view.TotalText = format.Currency(view.Total, lang)
	for _, it := range items {
		view.Items = append(view.Items, CartLine{
			ID:            it.ID,
			Name:          it.Name,
			Category:      it.Category,
			Href:          productsPath + "/" + url.PathEscape(it.ID),
			ImageURL:      products.ImageURL(imageBase, it.ImageURL),
			Quantity:      it.Quantity,
			UnitPriceText: format.Currency(it.Price, lang),
			LineTotalText: format.Currency(it.LineTotal(), lang),
		})
	}
	return view
}

// orderItems converts cart lines to the order-service request shape.
func orderItems(items []cart.Item) []orders.Item {
	out := make([]orders.Item, 0, len(items))
	for _, it := range items {
		out = append(out, orders.Item{
			ProductID: it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return out
}

// OrdersView is the order history page payload.
type OrdersView struct {
	Lang     string
	Orders   []OrderView
	Empty    bool
	SignedIn bool
	Error    string
}

// OrderView is one order summary.
type OrderView struct {
	ID        string
	Status    string
	Total     string
	CreatedAt string
	ItemCount int
	Items     []OrderLineView
}

// OrderLineView is one line of an order.
type OrderLineView struct {
	ProductID string
	Name      string
	Quantity  int
	PriceText string
}

func buildOrderView(lang string, o orders.Order) OrderView {
	v := OrderView{
		ID:        o.ID,
		Status:    o.Status,
		Total:     format.Currency(o.Total, lang),
		ItemCount: o.ItemCount(),
	}
	if !o.CreatedAt.IsZero() {
		v.CreatedAt = format.Date(o.CreatedAt, lang)
	}
	for _, it := range o.Items {
		name := it.Name
		if name == "" {
			name = it.ProductID
		}
		v.Items = append(v.Items, OrderLineView{
			ProductID: it.ProductID,
			Name:      name,
			Quantity:  it.Quantity,
			PriceText: format.Currency(it.Price, lang),
		})
	}
	return v
}
