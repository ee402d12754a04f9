package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/wanderpack/internal/auth"
	"github.com/dukerupert/wanderpack/internal/model"
)

// SessionCookieName is the cookie that may carry the access token.
const SessionCookieName = "wanderpack_session"

// SessionLookup returns a live session by ID, or nil if it is unknown or expired.
type SessionLookup interface {
	Get(id string) (*model.Session, error)
}

// RequireAuth validates the bearer token (or session cookie) and its session,
// and populates AuthContext. Failures get a JSON 401.
func RequireAuth(tokens *auth.TokenManager, sessions SessionLookup) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac, ok := authenticate(r, tokens, sessions)
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
		})
	}
}

// OptionalAuth populates AuthContext when valid credentials are present and
// passes anonymous requests through unchanged.
func OptionalAuth(tokens *auth.TokenManager, sessions SessionLookup) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ac, ok := authenticate(r, tokens, sessions); ok {
				r = r.WithContext(auth.WithAuth(r.Context(), ac))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(r *http.Request, tokens *auth.TokenManager, sessions SessionLookup) (auth.AuthContext, bool) {
	raw := TokenFromRequest(r)
	if raw == "" {
		return auth.AuthContext{}, false
	}
	claims, err := tokens.Parse(raw)
	if err != nil {
		return auth.AuthContext{}, false
	}
	sess, err := sessions.Get(claims.SessionID)
	if err != nil || sess == nil || sess.UserID != claims.UserID {
		return auth.AuthContext{}, false
	}
	return auth.AuthContext{UserID: sess.UserID, SessionID: sess.ID}, true
}

// TokenFromRequest returns the bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
