// Package auth carries session identity from the HTTP edge into the request context.
//
// A session is an opaque token persisted by a Store. The value handed to the
// client is "<token>.<signature>" where the signature is an HMAC-SHA256 of the
// token under the server secret, so forged or truncated values are rejected
// before the store is consulted. The value travels in the "session" cookie or
// as an "Authorization: Bearer" header.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const (
	CookieName   = "session"
	userIDCtxKey = ctxKey("userID")
	tokenCtxKey  = ctxKey("sessionToken")
)

var (
	ErrInvalidToken   = errors.New("invalid session token")
	ErrSessionExpired = errors.New("session expired")
)

// Store validates persisted session tokens.
type Store interface {
	// Lookup returns the user owning a live token, or an error when the token
	// is unknown, revoked, expired or belongs to a removed user.
	Lookup(ctx context.Context, token string) (uint, error)
}

// Manager signs session values and resolves them on incoming requests.
type Manager struct {
	secret []byte
	store  Store
	secure bool
}

// NewManager creates a manager. secure marks cookies Secure (production over TLS).
func NewManager(secret string, store Store, secure bool) *Manager {
	return &Manager{secret: []byte(secret), store: store, secure: secure}
}

func (m *Manager) signature(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Sign returns the client-facing value for a token.
func (m *Manager) Sign(token string) string {
	return token + "." + m.signature(token)
}

// Verify checks a client-facing value and returns the token it carries.
func (m *Manager) Verify(value string) (string, error) {
	token, sig, ok := strings.Cut(value, ".")
	if !ok || token == "" || sig == "" {
		return "", ErrInvalidToken
	}
	if !hmac.Equal([]byte(sig), []byte(m.signature(token))) {
		return "", ErrInvalidToken
	}
	return token, nil
}

// SetCookie writes the signed session cookie.
func (m *Manager) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    m.Sign(token),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

// ClearCookie deletes the session cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// rawValue extracts the signed value from the Authorization header or the cookie.
func rawValue(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if v, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(v)
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// Middleware attaches the user id and token to the request context when the
// request carries a valid live session. Invalid sessions are treated as anonymous.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := rawValue(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, err := m.Verify(raw)
		if err == nil {
			var uid uint
			uid, err = m.store.Lookup(r.Context(), token)
			if err == nil {
				ctx := WithUserID(r.Context(), uid)
				ctx = context.WithValue(ctx, tokenCtxKey, token)
				r = r.WithContext(ctx)
			}
		}
		if err != nil {
			logrus.WithError(err).WithField("path", r.URL.Path).Debug("session rejected")
		}
		next.ServeHTTP(w, r)
	})
}

// WithUserID stores user id in context.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDCtxKey).(uint)
	return id, ok && id != 0
}

// TokenFromContext returns the session token validated by Middleware.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenCtxKey).(string)
	return t, ok && t != ""
}

// RequireAuth answers 401 JSON when no user is attached. Browsers asking for
// HTML are redirected to /login instead.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		accept := r.Header.Get("Accept")
		if strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json") {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
	})
}
