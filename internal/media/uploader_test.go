package media

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pingchat/internal/apperr"
)

const tinyPNG = "data:image/png;base64,aGVsbG8gd29ybGQ=" // "hello world"

func TestHostClient_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("already-hosted URLs pass through", func(t *testing.T) {
		c := NewHostClient("http://unused", "")
		url, err := c.Upload(ctx, "https://media.example.com/pic.png")
		require.NoError(t, err)
		assert.Equal(t, "https://media.example.com/pic.png", url)
	})

	t.Run("inline payload is uploaded as multipart", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "unsigned_demo", r.FormValue("upload_preset"))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Contains(t, header.Filename, ".png")

			json.NewEncoder(w).Encode(map[string]string{"secure_url": "https://cdn.example.com/abc.png"})
		}))
		defer srv.Close()

		c := NewHostClient(srv.URL, "unsigned_demo")
		url, err := c.Upload(ctx, tinyPNG)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/abc.png", url)
	})

	t.Run("undecodable payload is a validation error", func(t *testing.T) {
		c := NewHostClient("http://unused", "")
		_, err := c.Upload(ctx, "not a data uri")

		var ae *apperr.AppError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, apperr.CodeInvalidArgument, ae.Code)
	})

	t.Run("media host failure is an upload error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewHostClient(srv.URL, "")
		_, err := c.Upload(ctx, tinyPNG)

		var ae *apperr.AppError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, apperr.CodeUploadFailed, ae.Code)
	})
}

func TestDecodeDataURI(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		payload, ext, err := decodeDataURI(tinyPNG)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello world"), payload)
		assert.Equal(t, "png", ext)
	})

	t.Run("missing base64 marker", func(t *testing.T) {
		_, _, err := decodeDataURI("data:image/png,plain")
		assert.Error(t, err)
	})

	t.Run("empty payload", func(t *testing.T) {
		_, _, err := decodeDataURI("data:image/png;base64,")
		assert.Error(t, err)
	})
}
