package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"
)

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Welcome 🐾</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #fefaf6; padding: 20px;">
  <div style="max-width: 520px; margin: 0 auto; background: #ffffff; border-radius: 12px; padding: 30px; text-align: center; box-shadow: 0 6px 20px rgba(0,0,0,0.06);">
    <h1 style="margin: 0; color: #333;">Welcome, {{.Name}}! 🐶</h1>
    <p style="font-size: 16px; color: #555; margin-top: 10px;">
      Your cozy chat space is ready. Just like Snoopy says:<br/>
      <em>“Happiness is a warm conversation.”</em>
    </p>
    <a href="{{.ClientURL}}"
       style="display: inline-block; margin-top: 20px; padding: 12px 28px; background-color: #f5c16c; color: #333; text-decoration: none; border-radius: 999px; font-weight: bold;">
      Enter the Doghouse 💬
    </a>
    <p style="margin-top: 30px; font-size: 14px; color: #888;">
      — Your Snoopy-style Chat Team 🐾
    </p>
  </div>
</body>
</html>`))

// Logger is the only failure channel for welcome mail; delivery problems
// never surface to the signup caller.
type Logger interface {
	Printf(format string, v ...any)
}

// Sender posts welcome mail to a Resend-style HTTP API.
type Sender struct {
	apiURL    string
	apiKey    string
	from      string
	clientURL string
	client    *http.Client
	log       Logger
}

func NewSender(apiKey, from, clientURL string, log Logger) *Sender {
	return &Sender{
		apiURL:    "https://api.resend.com/emails",
		apiKey:    apiKey,
		from:      from,
		clientURL: clientURL,
		client:    &http.Client{Timeout: 15 * time.Second},
		log:       log,
	}
}

// SendWelcomeAsync fires the welcome email in a detached goroutine. The
// signup response never waits on it.
func (s *Sender) SendWelcomeAsync(name, addr string) {
	if s.apiKey == "" {
		s.log.Printf("RESEND_API_KEY not set, skipping welcome email for %s", addr)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := s.SendWelcome(ctx, name, addr); err != nil {
			s.log.Printf("welcome email to %s failed: %v", addr, err)
		}
	}()
}

func (s *Sender) SendWelcome(ctx context.Context, name, addr string) error {
	var html bytes.Buffer
	if err := welcomeTmpl.Execute(&html, struct {
		Name      string
		ClientURL string
	}{name, s.clientURL}); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]any{
		"from":    s.from,
		"to":      []string{addr},
		"subject": "Welcome to PingChat 🐾",
		"html":    html.String(),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email API returned %d: %s", resp.StatusCode, b)
	}
	return nil
}
