package config

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the server reads from the environment.
// Secrets come from the environment (Docker); a local .env is honored in dev.
type Config struct {
	Addr      string `envconfig:"ADDR" default:":8080"`
	DBDSN     string `envconfig:"DB_DSN"`
	JWTSecret string `envconfig:"JWT_SECRET"`
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	ClientURL string `envconfig:"CLIENT_URL" default:"http://localhost:5173"`

	// Media host (cloudinary-style unsigned upload endpoint)
	MediaUploadURL string `envconfig:"MEDIA_UPLOAD_URL"`
	MediaPreset    string `envconfig:"MEDIA_UPLOAD_PRESET"`

	// Resend-style email API. Empty key disables welcome emails.
	ResendAPIKey string `envconfig:"RESEND_API_KEY"`
	EmailFrom    string `envconfig:"EMAIL_FROM" default:"PingChat <onboarding@resend.dev>"`

	// Request guard (sliding window per client IP)
	GuardMaxRequests int  `envconfig:"GUARD_MAX_REQUESTS" default:"100"`
	GuardWindowSecs  int  `envconfig:"GUARD_WINDOW_SECONDS" default:"60"`
	GuardEnabled     bool `envconfig:"GUARD_ENABLED" default:"true"`

	LogDir string `envconfig:"LOG_DIR" default:"logs"`
}

// Load reads the environment into a Config. A missing .env file is fine;
// missing DSN or JWT secret is not.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return &cfg, nil
}
