package middleware

import (
	"context"
	"net/http"
	"strings"
)

// LocaleResolver is the part of the i18n bundle the middleware needs.
type LocaleResolver interface {
	Resolve(acceptLanguage string) string
	Fallback() string
	Supports(lang string) bool
}

// Locale resolves the preferred language and stores it in the session and the `hl` cookie.
// Precedence: ?hl= query, session, cookie, Accept-Language.
func Locale(bundle LocaleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ctxKeyLocaleFB, bundle.Fallback())
			r = r.WithContext(ctx)
			s := GetSession(r)
			if q := strings.ToLower(r.URL.Query().Get("hl")); q != "" && bundle.Supports(q) {
				if s.Locale != q {
					s.Locale = q
					s.MarkDirty()
				}
				http.SetCookie(w, &http.Cookie{Name: "hl", Value: q, Path: "/", SameSite: http.SameSiteLaxMode})
			} else if s.Locale == "" {
				if c, err := r.Cookie("hl"); err == nil && bundle.Supports(strings.ToLower(c.Value)) {
					s.Locale = strings.ToLower(c.Value)
				} else {
					s.Locale = bundle.Resolve(r.Header.Get("Accept-Language"))
				}
				s.MarkDirty()
			}
			if s.Locale != "" {
				w.Header().Set("Content-Language", s.Locale)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// VaryLocale sets Vary header for Accept-Language on dynamic responses
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r)
	})
}

// Lang returns current lang from session, then the bundle fallback, then "en".
func Lang(r *http.Request) string {
	if s := GetSession(r); s != nil && s.Locale != "" {
		return s.Locale
	}
	if v := r.Context().Value(ctxKeyLocaleFB); v != nil {
		if fb, ok := v.(string); ok && fb != "" {
			return fb
		}
	}
	return "en"
}
