// Package recent tracks the products a session opened most recently.
package recent

import (
	"go.uber.org/zap"

	"github.com/wasifsarwar/gocart/internal/catalog"
	"github.com/wasifsarwar/gocart/internal/storage"
)

// StorageKey is the storage key holding the JSON product list.
const StorageKey = "gocart.recentlyViewedProducts.v1"

// Store keeps at most catalog.MaxRecentItems products, most recent first.
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

// MaxItems is the list capacity.
func (s *Store) MaxItems() int { return catalog.MaxRecentItems }

// List returns the recently viewed products. Entries without an id or name are dropped.
func (s *Store) List() []catalog.Product {
	var raw []catalog.Product
	if _, err := storage.ReadJSON(s.kv, StorageKey, &raw); err != nil {
		s.logger.Debug("recently viewed read failed", zap.Error(err))
		return []catalog.Product{}
	}
	out := make([]catalog.Product, 0, len(raw))
	for _, p := range raw {
		if p.ID == "" || p.Name == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Add moves p to the front, dropping any older entry for the same product,
// and trims the list to MaxItems. It returns the new list.
func (s *Store) Add(p catalog.Product) []catalog.Product {
	current := s.List()
	next := make([]catalog.Product, 0, len(current)+1)
	next = append(next, p)
	for _, existing := range current {
		if existing.ID == p.ID {
			continue
		}
		next = append(next, existing)
	}
	if len(next) > s.MaxItems() {
		next = next[:s.MaxItems()]
	}
	if err := storage.WriteJSON(s.kv, StorageKey, next); err != nil {
		s.logger.Debug("recently viewed write failed", zap.Error(err))
	}
	return next
}

// Clear empties the list.
func (s *Store) Clear() {
	if s.kv != nil {
		s.kv.Remove(StorageKey)
	}
}
