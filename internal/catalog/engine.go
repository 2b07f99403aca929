package catalog

import (
	"strconv"
	"strings"
	"sync"
)

// Engine memoizes the most recent Derive call. Views handed out by an Engine
// share their slices with the cache and must be treated as read-only.
type Engine struct {
	mu   sync.Mutex
	key  memoKey
	view View
	ok   bool

	hits   uint64
	misses uint64
}

type memoKey struct {
	state     State
	version   uint64
	favorites string
	recent    string
	excludeID string
	lang      string
}

// NewEngine returns an Engine with an empty cache.
func NewEngine() *Engine {
	return &Engine{}
}

// Derive returns the cached view when state and inputs match the previous call
// and recomputes otherwise. The catalog is identified by its Snapshot.Version.
func (e *Engine) Derive(s State, in Inputs) View {
	key := memoKey{
		state:     s,
		version:   in.Catalog.Version,
		favorites: listKey(in.FavoriteIDs),
		recent:    recentKey(in.Recent),
		excludeID: in.ExcludeID,
		lang:      in.Lang,
	}

	e.mu.Lock()
	if e.ok && e.key == key {
		v := e.view
		e.hits++
		e.mu.Unlock()
		return v
	}
	e.misses++
	e.mu.Unlock()

	v := Derive(s, in)

	e.mu.Lock()
	e.key, e.view, e.ok = key, v, true
	e.mu.Unlock()
	return v
}

// Stats reports cache hits and misses since construction.
func (e *Engine) Stats() (hits, misses uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hits, e.misses
}

// listKey encodes fields with length prefixes so that no id or name can
// collide with a separator.
func listKey(ids []string) string {
	var b strings.Builder
	for _, id := range ids {
		writeField(&b, id)
	}
	return b.String()
}

func recentKey(recent []Product) string {
	var b strings.Builder
	for _, p := range recent {
		writeField(&b, p.ID)
		writeField(&b, p.Name)
		writeField(&b, p.Description)
		writeField(&b, p.Category)
		writeField(&b, strconvFloat(p.Price))
		writeField(&b, p.ImageURL)
	}
	return b.String()
}

func writeField(b *strings.Builder, v string) {
	b.WriteString(strconv.Itoa(len(v)))
	b.WriteByte(':')
	b.WriteString(v)
}
