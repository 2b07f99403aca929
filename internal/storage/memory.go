package storage

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultQuota is the per-bucket byte budget, in line with browser local storage.
	DefaultQuota = 5 << 20
	// DefaultTTL is how long an untouched bucket survives.
	DefaultTTL = 30 * 24 * time.Hour
)

// MemoryStore keeps one key/value bucket per browser session.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	quota   int
	ttl     time.Duration
	now     func() time.Time
}

type bucket struct {
	values    map[string][]byte
	size      int
	expiresAt time.Time
}

// Option customises a MemoryStore.
type Option func(*MemoryStore)

// WithQuota caps the bytes (keys plus values) a bucket may hold. Zero or less disables the cap.
func WithQuota(bytes int) Option {
	return func(s *MemoryStore) { s.quota = bytes }
}

// WithTTL sets the idle lifetime of a bucket.
func WithTTL(ttl time.Duration) Option {
	return func(s *MemoryStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		buckets: make(map[string]*bucket),
		quota:   DefaultQuota,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bucket returns the key/value view of one session. An empty id yields a
// bucket that reads as empty and rejects writes with ErrUnavailable.
func (s *MemoryStore) Bucket(id string) KV {
	if id == "" {
		return unavailable{}
	}
	return &bucketKV{store: s, id: id}
}

// Move hands the bucket of from over to to, replacing whatever to held. It is
// used when a session id rotates on sign-in so the shopper keeps their cart.
func (s *MemoryStore) Move(from, to string) {
	if from == "" || to == "" || from == to {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.live(from)
	if !ok {
		return
	}
	delete(s.buckets, from)
	b.expiresAt = s.now().UTC().Add(s.ttl)
	s.buckets[to] = b
}

// Len reports the number of live buckets.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// CleanupExpired drops up to limit buckets whose TTL has elapsed at now.
func (s *MemoryStore) CleanupExpired(_ context.Context, now time.Time, limit int) (int, error) {
	now = now.UTC()
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.buckets) {
		limit = len(s.buckets)
	}

	removed := 0
	for id, b := range s.buckets {
		if removed >= limit {
			break
		}
		if now.Before(b.expiresAt) {
			continue
		}
		delete(s.buckets, id)
		removed++
	}
	return removed, nil
}

func (s *MemoryStore) get(id, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.live(id)
	if !ok {
		return nil, false
	}
	v, ok := b.values[key]
	if !ok {
		return nil, false
	}
	b.expiresAt = s.now().UTC().Add(s.ttl)
	return append([]byte(nil), v...), true
}

func (s *MemoryStore) set(id, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.live(id)
	if !ok {
		b = &bucket{values: make(map[string][]byte)}
	}
	size := b.size
	if old, exists := b.values[key]; exists {
		size -= len(key) + len(old)
	}
	size += len(key) + len(value)
	if s.quota > 0 && size > s.quota {
		return ErrQuotaExceeded
	}

	b.values[key] = append([]byte(nil), value...)
	b.size = size
	b.expiresAt = s.now().UTC().Add(s.ttl)
	s.buckets[id] = b
	return nil
}

func (s *MemoryStore) remove(id, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.live(id)
	if !ok {
		return
	}
	if old, exists := b.values[key]; exists {
		b.size -= len(key) + len(old)
		delete(b.values, key)
	}
	if len(b.values) == 0 {
		delete(s.buckets, id)
	}
}

// live returns the bucket for id unless it has expired. Callers hold s.mu.
func (s *MemoryStore) live(id string) (*bucket, bool) {
	b, ok := s.buckets[id]
	if !ok {
		return nil, false
	}
	if !s.now().UTC().Before(b.expiresAt) {
		delete(s.buckets, id)
		return nil, false
	}
	return b, true
}

type bucketKV struct {
	store *MemoryStore
	id    string
}

func (b *bucketKV) Get(key string) ([]byte, bool) { return b.store.get(b.id, key) }
func (b *bucketKV) Set(key string, value []byte) error { return b.store.set(b.id, key, value) }
func (b *bucketKV) Remove(key string) { b.store.remove(b.id, key) }

type unavailable struct{}

func (unavailable) Get(string) ([]byte, bool) { return nil, false }
func (unavailable) Set(string, []byte) error { return ErrUnavailable }
func (unavailable) Remove(string) {}

// Unavailable returns a KV whose reads miss and whose writes fail with ErrUnavailable.
func Unavailable() KV { return unavailable{} }
