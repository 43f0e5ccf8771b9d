package email

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSender_SendWelcome(t *testing.T) {
	t.Run("posts the rendered template to the mail API", func(t *testing.T) {
		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		s := NewSender("test-key", "PingChat <hi@test.local>", "https://app.test.local", log.Default())
		s.apiURL = srv.URL

		err := s.SendWelcome(context.Background(), "Ada", "ada@example.com")
		require.NoError(t, err)

		assert.Equal(t, []any{"ada@example.com"}, got["to"])
		html, _ := got["html"].(string)
		assert.Contains(t, html, "Welcome, Ada!")
		assert.Contains(t, html, "https://app.test.local")
	})

	t.Run("API failure is an error for the logger, nothing more", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		s := NewSender("test-key", "PingChat <hi@test.local>", "https://app.test.local", log.Default())
		s.apiURL = srv.URL

		err := s.SendWelcome(context.Background(), "Ada", "ada@example.com")
		assert.Error(t, err)
	})
}
