package auth

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rentfleet/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeUserStore struct {
	users map[int64]*db.User
}

func (s *fakeUserStore) GetByID(id int64) (*db.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func TestTokenRoundTrip(t *testing.T) {
	user := &db.User{ID: 42, Username: "alice", Role: db.RoleCustomer}

	token, err := GenerateToken(testSecret, time.Hour, user)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, db.RoleCustomer, claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, time.Hour, &db.User{ID: 1, Username: "bob"})
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken(testSecret, -time.Minute, &db.User{ID: 1, Username: "bob"})
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	_, err := GenerateToken("", time.Hour, &db.User{ID: 1})
	assert.Error(t, err)
}

func TestAuthenticateMiddleware(t *testing.T) {
	store := &fakeUserStore{users: map[int64]*db.User{
		7: {ID: 7, Username: "carol", Role: db.RoleAdmin},
	}}
	mw := NewMiddleware(testSecret, store)

	var seen *db.User
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token", func(t *testing.T) {
		token, err := GenerateToken(testSecret, time.Hour, store.users[7])
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "carol", seen.Username)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		token, err := GenerateToken(testSecret, time.Hour, &db.User{ID: 99, Username: "ghost"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireOperator(t *testing.T) {
	mw := NewMiddleware(testSecret, &fakeUserStore{})
	handler := mw.RequireOperator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		user *db.User
		want int
	}{
		{name: "admin allowed", user: &db.User{Role: db.RoleAdmin}, want: http.StatusOK},
		{name: "employee allowed", user: &db.User{Role: db.RoleEmployee}, want: http.StatusOK},
		{name: "customer forbidden", user: &db.User{Role: db.RoleCustomer}, want: http.StatusForbidden},
		{name: "unauthenticated", user: nil, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/vehicles", nil)
			if tt.user != nil {
				req = req.WithContext(WithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
