// Package storage provides the per-session key/value capability behind the
// favorites, recently viewed and cart stores. Like browser local storage it is
// a best-effort cache: callers treat every failure as "no data".
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrQuotaExceeded is returned when a write would push a bucket past its byte quota.
	ErrQuotaExceeded = errors.New("storage: quota exceeded")
	// ErrUnavailable is returned when no bucket backs the caller (no session).
	ErrUnavailable = errors.New("storage: unavailable")
)

// KV is a string-keyed byte store scoped to one session.
type KV interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Remove(key string)
}

// ReadJSON decodes the value at key into dst. It reports false when the key is
// missing or holds malformed JSON.
func ReadJSON(kv KV, key string, dst any) (bool, error) {
	if kv == nil {
		return false, ErrUnavailable
	}
	raw, ok := kv.Get(key)
	if !ok || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("storage: decode %s: %w", key, err)
	}
	return true, nil
}

// WriteJSON encodes v and stores it at key.
func WriteJSON(kv KV, key string, v any) error {
	if kv == nil {
		return ErrUnavailable
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	if err := kv.Set(key, raw); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}

// Cleaner periodically removes expired buckets.
type Cleaner struct {
	store    *MemoryStore
	interval time.Duration
	limit    int
	logger   *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// StartCleanup launches the cleanup loop. A non-positive interval disables it;
// Stop is always safe to call.
func StartCleanup(store *MemoryStore, interval time.Duration, limit int, logger *zap.Logger) *Cleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cleaner{store: store, interval: interval, limit: limit, logger: logger}
	if store == nil || interval <= 0 {
		return c
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	ticker := time.NewTicker(interval)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				removed, err := store.CleanupExpired(ctx, time.Now().UTC(), limit)
				if err != nil {
					c.logger.Error("storage cleanup error", zap.Error(err))
					continue
				}
				if removed > 0 {
					c.logger.Info("storage cleanup removed buckets", zap.Int("count", removed))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return c
}

// Stop ends the loop and waits for it to exit.
func (c *Cleaner) Stop() {
	if c == nil || c.cancel == nil {
		return
	}
	c.cancel()
	c.wg.Wait()
}
