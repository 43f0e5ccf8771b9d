package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"pingchat/internal/apperr"
)

// Uploader turns an inline media payload (base64 data URI) into a stable
// hosted URL. Already-hosted http(s) URLs pass through untouched.
type Uploader interface {
	Upload(ctx context.Context, dataURI string) (string, error)
}

// HostClient uploads to a cloudinary-style unsigned upload endpoint.
type HostClient struct {
	uploadURL string
	preset    string
	client    *http.Client
}

func NewHostClient(uploadURL, preset string) *HostClient {
	return &HostClient{
		uploadURL: uploadURL,
		preset:    preset,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

func (c *HostClient) Upload(ctx context.Context, dataURI string) (string, error) {
	if strings.HasPrefix(dataURI, "http://") || strings.HasPrefix(dataURI, "https://") {
		return dataURI, nil
	}

	payload, ext, err := decodeDataURI(dataURI)
	if err != nil {
		return "", apperr.InvalidArg("invalid media payload")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", uuid.NewString()+"."+ext)
	if err != nil {
		return "", apperr.Upload("media upload failed", err)
	}
	if _, err := part.Write(payload); err != nil {
		return "", apperr.Upload("media upload failed", err)
	}
	if c.preset != "" {
		mw.WriteField("upload_preset", c.preset)
	}
	if err := mw.Close(); err != nil {
		return "", apperr.Upload("media upload failed", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return "", apperr.Upload("media upload failed", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperr.Upload("media host unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", apperr.Upload("media upload failed", fmt.Errorf("media host returned %d: %s", resp.StatusCode, b))
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.SecureURL == "" {
		return "", apperr.Upload("media upload failed", fmt.Errorf("bad media host response: %v", err))
	}
	return out.SecureURL, nil
}

// decodeDataURI splits "data:image/png;base64,...." into raw bytes and a
// file extension.
func decodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data URI")
	}
	meta, data, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("unsupported data URI encoding")
	}

	mediaType := strings.TrimSuffix(meta, ";base64")
	ext := "bin"
	if _, sub, ok := strings.Cut(mediaType, "/"); ok && sub != "" {
		ext = sub
	}

	payload, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", err
	}
	if len(payload) == 0 {
		return nil, "", fmt.Errorf("empty payload")
	}
	return payload, ext, nil
}
