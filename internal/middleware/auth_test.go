package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pingchat/internal/apperr"
)

type fakeValidator struct {
	userID uuid.UUID
	err    error
}

func (f *fakeValidator) ValidateToken(_ string) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	return f.userID, nil
}

func TestAuthMiddleware_Handle(t *testing.T) {
	userID := uuid.New()

	run := func(am *AuthMiddleware, req *http.Request) (*httptest.ResponseRecorder, uuid.UUID) {
		rec := httptest.NewRecorder()
		var got uuid.UUID
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = r.Context().Value(UserKey).(uuid.UUID)
			w.WriteHeader(http.StatusOK)
		})
		am.Handle(next).ServeHTTP(rec, req)
		return rec, got
	}

	t.Run("cookie token is accepted and user is injected", func(t *testing.T) {
		am := NewAuthMiddleware(&fakeValidator{userID: userID})
		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		req.AddCookie(&http.Cookie{Name: "jwt", Value: "token"})

		rec, got := run(am, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, got)
	})

	t.Run("bearer header works as fallback", func(t *testing.T) {
		am := NewAuthMiddleware(&fakeValidator{userID: userID})
		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		req.Header.Set("Authorization", "Bearer token")

		rec, got := run(am, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, got)
	})

	t.Run("query param works for websocket dials", func(t *testing.T) {
		am := NewAuthMiddleware(&fakeValidator{userID: userID})
		req := httptest.NewRequest(http.MethodGet, "/ws?token=token", nil)

		rec, got := run(am, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, got)
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		am := NewAuthMiddleware(&fakeValidator{userID: userID})
		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)

		rec, _ := run(am, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		am := NewAuthMiddleware(&fakeValidator{err: apperr.Unauthorized("invalid token")})
		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		req.AddCookie(&http.Cookie{Name: "jwt", Value: "bad"})

		rec, _ := run(am, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
