package guard

import (
	"log"
	"net"
	"net/http"
	"strings"

	"pingchat/internal/apperr"
)

// Guard sits in front of the API: it drops obvious bots and rate-limits by
// client IP. Auth routes and preflight requests pass through unfiltered, and
// any internal failure fails open — availability beats filtering.
type Guard struct {
	limiter Limiter
}

func New(limiter Limiter) *Guard {
	return &Guard{limiter: limiter}
}

var blockedAgents = []string{"bot", "crawler", "spider", "scraper", "python-requests", "curl/"}

// Search engines stay allowed even though they match the generic patterns.
var allowedAgents = []string{"googlebot", "bingbot", "duckduckbot", "slurp"}

func (g *Guard) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || strings.HasPrefix(r.URL.Path, "/api/auth") {
			next.ServeHTTP(w, r)
			return
		}

		if denied(r.UserAgent()) {
			apperr.Respond(w, apperr.Forbidden("Access denied by security policy."))
			return
		}

		ok, err := g.limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			// Fail open: a broken limiter must not take the API down.
			log.Printf("guard limiter error: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"message":"Rate limit exceeded."}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func denied(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, allow := range allowedAgents {
		if strings.Contains(ua, allow) {
			return false
		}
	}
	for _, block := range blockedAgents {
		if strings.Contains(ua, block) {
			return true
		}
	}
	return false
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(ip)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
