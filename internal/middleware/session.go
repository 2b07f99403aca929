package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	sessionCookieName = "GOCART_SESSION"
	sessionMaxAge     = 30 * 24 * time.Hour
)

// SessionData is the signed cookie payload. Shopper state (cart, favorites, recently viewed)
// lives in the storage bucket keyed by ID, not in the cookie.
type SessionData struct {
	ID        string    `json:"id"`
	UserID    string    `json:"uid,omitempty"`
	Locale    string    `json:"locale,omitempty"`
	CSRFToken string    `json:"csrf,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// internal dirty flag; not serialized
	dirty bool `json:"-"`
}

// SessionOptions configures the Session middleware.
type SessionOptions struct {
	// SigningKey signs the cookie. Empty generates a process-ephemeral key.
	SigningKey string
	Secure     bool
	Logger     *zap.Logger
}

type sessionCodec struct {
	key    []byte
	secure bool
}

// Session loads or initializes a session and stores it in request context.
func Session(opts SessionOptions) func(http.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	codec := sessionCodec{key: []byte(opts.SigningKey), secure: opts.Secure}
	if opts.SigningKey == "" {
		codec.key = make([]byte, 32)
		if _, err := rand.Read(codec.key); err != nil {
			logger.Warn("session: failed to generate signing key", zap.Error(err))
			codec.key = []byte("insecure-dev-key-please-set-GOCART_SESSION_SIGNING_KEY")
		}
		logger.Info("session: using ephemeral signing key; set GOCART_SESSION_SIGNING_KEY for production")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sd, fromCookie := codec.read(r)
			if sd.ID == "" {
				sd.ID = randID()
				sd.CreatedAt = time.Now().UTC()
				sd.UpdatedAt = sd.CreatedAt
				sd.CSRFToken = newCSRFToken()
				sd.dirty = true
			}
			ctx := contextWithSession(r.Context(), sd)
			ctx = context.WithValue(ctx, ctxKeyCookieSecure, codec.secure)

			rw := NewResponseRecorder(w)
			// ensure cookie is set just before first write if needed
			rw.SetBeforeWrite(func(w http.ResponseWriter) {
				if sd.dirty || !fromCookie {
					codec.write(w, sd)
				}
			})
			next.ServeHTTP(rw, r.WithContext(ctx))
			// nothing written yet (e.g. HEAD); persist cookie now
			if !rw.Written() && (sd.dirty || !fromCookie) {
				codec.write(w, sd)
			}
		})
	}
}

const ctxKeyCookieSecure ctxKey = "cookie_secure"

func cookieSecure(r *http.Request) bool {
	v, _ := r.Context().Value(ctxKeyCookieSecure).(bool)
	return v
}

func contextWithSession(ctx context.Context, s *SessionData) context.Context {
	ctx = context.WithValue(ctx, ctxKeySession, s)
	if s.UserID != "" {
		ctx = WithUser(ctx, &User{ID: s.UserID})
	}
	return ctx
}

// GetSession returns session data from context
func GetSession(r *http.Request) *SessionData {
	if v := r.Context().Value(ctxKeySession); v != nil {
		if sd, ok := v.(*SessionData); ok {
			return sd
		}
	}
	return &SessionData{}
}

// ShopperID identifies the shopper for orders: the signed-in user, or a guest id derived
// from the session.
func (s *SessionData) ShopperID() string {
	if s.UserID != "" {
		return s.UserID
	}
	if s.ID == "" {
		return ""
	}
	return "guest-" + s.ID
}

// MarkDirty flags the session for writing at end of request
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

// RegenerateID assigns a new session ID and CSRF token to prevent fixation after auth.
func (s *SessionData) RegenerateID() {
	s.ID = randID()
	s.CSRFToken = newCSRFToken()
	s.MarkDirty()
}

// SignIn records uid on the session. The first sign-in rotates the session id;
// switching users only marks the session dirty.
func (s *SessionData) SignIn(uid string) {
	if uid == "" || s.UserID == uid {
		return
	}
	wasAuthed := s.UserID != ""
	s.UserID = uid
	if wasAuthed {
		s.MarkDirty()
		return
	}
	s.RegenerateID()
}

// SignOut forgets the user and rotates the session id.
func (s *SessionData) SignOut() {
	if s.UserID == "" {
		return
	}
	s.UserID = ""
	s.RegenerateID()
}

func (c sessionCodec) read(r *http.Request) (*SessionData, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return &SessionData{}, false
	}
	payloadPart, sigPart, ok := strings.Cut(cookie.Value, ".")
	if !ok {
		return &SessionData{}, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil {
		return &SessionData{}, false
	}
	sig, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return &SessionData{}, false
	}
	if !hmac.Equal(sig, c.sign(payload)) {
		return &SessionData{}, false
	}
	var sd SessionData
	if err := json.Unmarshal(payload, &sd); err != nil {
		return &SessionData{}, false
	}
	return &sd, true
}

func (c sessionCodec) write(w http.ResponseWriter, sd *SessionData) {
	b, _ := json.Marshal(sd)
	val := base64.RawURLEncoding.EncodeToString(b) + "." + base64.RawURLEncoding.EncodeToString(c.sign(b))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    val,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionMaxAge),
	})
}

func (c sessionCodec) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(payload)
	return mac.Sum(nil)
}

func randID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
