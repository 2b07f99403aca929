// Package favorites keeps a session's favorite product ids, most recent first.
package favorites

import (
	"slices"

	"go.uber.org/zap"

	"github.com/wasifsarwar/gocart/internal/storage"
)

// StorageKey is the storage key holding the JSON id list.
const StorageKey = "gocart.favorites.v1"

// Store reads and writes favorites through a storage bucket. Storage failures
// are logged and otherwise ignored.
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

// IDs returns the favorite ids, most recently favorited first.
func (s *Store) IDs() []string {
	var raw []string
	if _, err := storage.ReadJSON(s.kv, StorageKey, &raw); err != nil {
		s.logger.Debug("favorites read failed", zap.Error(err))
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, id := range raw {
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// IsFavorite reports whether id is a favorite.
func (s *Store) IsFavorite(id string) bool {
	return slices.Contains(s.IDs(), id)
}

// Count returns the number of favorites.
func (s *Store) Count() int {
	return len(s.IDs())
}

// Toggle adds id at the front or removes it, and reports whether it is now a favorite.
func (s *Store) Toggle(id string) bool {
	if id == "" {
		return false
	}
	ids := s.IDs()
	var on bool
	if i := slices.Index(ids, id); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	} else {
		ids = append([]string{id}, ids...)
		on = true
	}
	s.write(ids)
	return on
}

// Clear removes every favorite.
func (s *Store) Clear() {
	if s.kv != nil {
		s.kv.Remove(StorageKey)
	}
}

func (s *Store) write(ids []string) {
	if err := storage.WriteJSON(s.kv, StorageKey, ids); err != nil {
		s.logger.Debug("favorites write failed", zap.Error(err))
	}
}
