package middleware

import (
	"context"
	"net/http"

	"github.com/wasifsarwar/gocart/internal/storage"
)

const ctxKeyBucket ctxKey = "storage_bucket"

// BucketSource hands out per-session key/value buckets.
type BucketSource interface {
	Bucket(id string) storage.KV
}

// Storage attaches the session's storage bucket to the request. Must run after Session.
func Storage(src BucketSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := GetSession(r)
			kv := src.Bucket(s.ID)
			ctx := context.WithValue(r.Context(), ctxKeyBucket, kv)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Bucket returns the request's storage bucket. Without the Storage middleware every
// operation fails with storage.ErrUnavailable.
func Bucket(r *http.Request) storage.KV {
	if kv, ok := r.Context().Value(ctxKeyBucket).(storage.KV); ok && kv != nil {
		return kv
	}
	return storage.Unavailable()
}
