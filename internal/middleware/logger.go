package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	chiMid "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/wasifsarwar/gocart/internal/observability"
)

// Logger injects a request-scoped zap logger into the context and emits one structured
// entry per request.
func Logger(base *zap.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			logger := base.With(zap.String("request_id", chiMid.GetReqID(r.Context())))
			r = r.WithContext(observability.WithLogger(r.Context(), logger))

			rw := NewResponseRecorder(w)
			next.ServeHTTP(rw, r)

			var uid string
			if u := UserFromContext(r.Context()); u != nil {
				uid = u.ID
			} else if s := GetSession(r); s.UserID != "" {
				uid = s.UserID
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rw.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.Int64("bytes", rw.BytesWritten()),
				zap.String("remote_ip", clientIP(r)),
				zap.Bool("htmx", IsHTMX(r.Context())),
			}
			if uid != "" {
				fields = append(fields, zap.String("user_id", uid))
			}
			switch {
			case rw.Status() >= http.StatusInternalServerError:
				logger.Error("request", fields...)
			case rw.Status() >= http.StatusBadRequest:
				logger.Warn("request", fields...)
			default:
				logger.Info("request", fields...)
			}
		})
	}
}

func clientIP(r *http.Request) string {
	// last X-Forwarded-For entry is appended by our proxy
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		p := strings.Split(xff, ",")
		return strings.TrimSpace(p[len(p)-1])
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
