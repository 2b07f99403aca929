package middleware

import (
	"net/http"
	"strings"
)

// Auth accepts the development bearer "Authorization: Bearer debug:<uid>" and records the
// user on the session. It is disabled when allowDebug is false (production). Users signed
// in through the login form are already on the session and need no header.
func Auth(allowDebug bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowDebug {
				if uid, ok := debugUID(r); ok {
					GetSession(r).SignIn(uid)
					r = r.WithContext(WithUser(r.Context(), &User{ID: uid}))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func debugUID(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	if !strings.HasPrefix(token, "debug:") {
		return "", false
	}
	uid := strings.TrimSpace(strings.TrimPrefix(token, "debug:"))
	return uid, uid != ""
}
