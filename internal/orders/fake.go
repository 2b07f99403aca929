package orders

import (
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// memoryBook records orders when no order service is configured.
type memoryBook struct {
	mu     sync.Mutex
	byUser map[string][]Order
}

func newMemoryBook() *memoryBook {
	return &memoryBook{byUser: make(map[string][]Order)}
}

func (b *memoryBook) create(req CreateOrderRequest, now time.Time) Order {
	o := Order{
		ID:        ulid.Make().String(),
		UserID:    req.UserID,
		Status:    "pending",
		CreatedAt: now,
		Items:     slices.Clone(req.Items),
	}
	for _, it := range o.Items {
		o.Total += it.Price * float64(it.Quantity)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.byUser[req.UserID] = append(b.byUser[req.UserID], o)
	return o
}

func (b *memoryBook) list(userID string) []Order {
	b.mu.Lock()
	out := slices.Clone(b.byUser[userID])
	b.mu.Unlock()
	if out == nil {
		out = []Order{}
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(orders []Order) {
	slices.SortStableFunc(orders, func(a, b Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
