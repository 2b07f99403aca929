// Package cart keeps a session's shopping cart.
package cart

import (
	"go.uber.org/zap"

	"github.com/wasifsarwar/gocart/internal/catalog"
	"github.com/wasifsarwar/gocart/internal/storage"
)

// StorageKey is the storage key holding the JSON line items.
const StorageKey = "cart"

// Item is a cart line: a product snapshot and its quantity.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// LineTotal is price times quantity.
func (i Item) LineTotal() float64 { return i.Price * float64(i.Quantity) }

// Store reads and writes the cart through a storage bucket.
type Store struct {
	kv     storage.KV
	logger *zap.Logger
}

// New binds a Store to kv.
func New(kv storage.KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, logger: logger}
}

// Items returns the cart lines in insertion order.
func (s *Store) Items() []Item {
	var raw []Item
	if _, err := storage.ReadJSON(s.kv, StorageKey, &raw); err != nil {
		s.logger.Debug("cart read failed", zap.Error(err))
		return []Item{}
	}
	out := make([]Item, 0, len(raw))
	for _, it := range raw {
		if it.ID == "" || it.Quantity < 1 {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Add puts one unit of p in the cart.
func (s *Store) Add(p catalog.Product) {
	items := s.Items()
	for i := range items {
		if items[i].ID == p.ID {
			items[i].Quantity++
			s.write(items)
			return
		}
	}
	s.write(append(items, Item{Product: p, Quantity: 1}))
}

// Remove drops the line for id.
func (s *Store) Remove(id string) {
	items := s.Items()
	out := items[:0]
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	s.write(out)
}

// UpdateQuantity sets the quantity of id; below 1 removes the line.
func (s *Store) UpdateQuantity(id string, quantity int) {
	if quantity < 1 {
		s.Remove(id)
		return
	}
	items := s.Items()
	for i := range items {
		if items[i].ID == id {
			items[i].Quantity = quantity
			s.write(items)
			return
		}
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	if s.kv != nil {
		s.kv.Remove(StorageKey)
	}
}

// Total is the sum of line totals.
func (s *Store) Total() float64 {
	return Total(s.Items())
}

// Count is the number of units in the cart.
func (s *Store) Count() int {
	return Count(s.Items())
}

// Total sums the line totals of items.
func Total(items []Item) float64 {
	var sum float64
	for _, it := range items {
		sum += it.LineTotal()
	}
	return sum
}

// Count sums the quantities of items.
func Count(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func (s *Store) write(items []Item) {
	if err := storage.WriteJSON(s.kv, StorageKey, items); err != nil {
		s.logger.Debug("cart write failed", zap.Error(err))
	}
}
