package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"rentfleet/internal/db"
)

type contextKey string

const userContextKey contextKey = "user"

// UserStore loads the authenticated user behind a token's subject.
type UserStore interface {
	GetByID(id int64) (*db.User, error)
}

type Middleware struct {
	secret string
	users  UserStore
}

func NewMiddleware(secret string, users UserStore) *Middleware {
	return &Middleware{secret: secret, users: users}
}

// Authenticate requires a valid bearer token and loads the user into the
// request context. A 401 anywhere is the client's signal to tear down its
// session.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorized(w, "missing bearer token")
			return
		}
		claims, err := ParseToken(m.secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}
		user, err := m.users.GetByID(claims.UserID)
		if err != nil {
			unauthorized(w, "unknown user")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireOperator rejects non-operator roles. Must run after Authenticate.
func (m *Middleware) RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r.Context())
		if !ok {
			unauthorized(w, "missing bearer token")
			return
		}
		if !db.IsOperator(user.Role) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "operator role required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFrom extracts the authenticated user set by Authenticate.
func UserFrom(ctx context.Context) (*db.User, bool) {
	user, ok := ctx.Value(userContextKey).(*db.User)
	return user, ok
}

// WithUser returns a context carrying the user. Exposed for handler tests.
func WithUser(ctx context.Context, user *db.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
