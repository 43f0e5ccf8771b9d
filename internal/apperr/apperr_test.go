package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", InvalidArg("bad input"), http.StatusBadRequest},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"already exists", AlreadyExists("dupe"), http.StatusConflict},
		{"unauthenticated", Unauthorized("who"), http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), http.StatusForbidden},
		{"upload", Upload("upstream", errors.New("boom")), http.StatusBadGateway},
		{"storage", Storage(errors.New("db down")), http.StatusInternalServerError},
		{"plain error", errors.New("whatever"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("outer: %w", NotFound("inner")), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestRespond(t *testing.T) {
	t.Run("client errors expose their message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Respond(rec, NotFound("receiver not found"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"receiver not found"}`, rec.Body.String())
	})

	t.Run("internal causes are never leaked", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Respond(rec, Storage(errors.New("pq: password authentication failed")))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message":"internal server error"}`, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "password")
	})
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(CodeInternal, "something failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "root cause")
}
