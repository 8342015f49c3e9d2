package handlers

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pageforge/gateway/internal/shared/ratelimit"
)

// enterpriseKeyPrefix marks API keys that require exact rate enforcement
const enterpriseKeyPrefix = "ent_"

// apiKeyPrefixLen is how much of an API key identifies its holder for
// rate-limiting purposes. The full key never reaches the counter store.
const apiKeyPrefixLen = 8

// Caller is the rate-limit identity resolved for one request
type Caller struct {
	Key        string
	Policy     ratelimit.Policy
	Enterprise bool
}

type Middleware struct {
	limiter *ratelimit.Limiter
}

func NewMiddleware(limiter *ratelimit.Limiter) *Middleware {
	return &Middleware{limiter: limiter}
}

// resolveCaller picks the rate-limit key for a request: authenticated user
// id, then API-key prefix, then source IP. base is the route's policy; API
// key holders get the looser key-holder budget, and a malformed Authorization
// header is counted as an authentication attempt against the sender's IP.
func resolveCaller(r *http.Request, base ratelimit.Policy) Caller {
	if auth := r.Header.Get("Authorization"); auth != "" {
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			return Caller{Key: "ip:" + clientIP(r), Policy: ratelimit.PolicyAuth}
		}
		return Caller{Key: "user:" + token, Policy: base}
	}

	if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
		prefix := apiKey
		if len(prefix) > apiKeyPrefixLen {
			prefix = prefix[:apiKeyPrefixLen]
		}
		return Caller{
			Key:        "key:" + prefix,
			Policy:     ratelimit.PolicyAPIKey,
			Enterprise: strings.HasPrefix(apiKey, enterpriseKeyPrefix),
		}
	}

	return Caller{Key: "ip:" + clientIP(r), Policy: base}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit enforces base for every request passing through it. Rate-limit
// metadata headers go on every response, allowed or not.
func (m *Middleware) RateLimit(base ratelimit.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := resolveCaller(r, base)

			var (
				decision ratelimit.Decision
				err      error
			)
			if caller.Enterprise {
				decision, err = m.limiter.CheckConsistent(r.Context(), caller.Key, caller.Policy)
			} else {
				decision, err = m.limiter.Check(r.Context(), caller.Key, caller.Policy)
			}
			if err != nil {
				// fail open: a broken counter store must not take the
				// service down with it. The limit is still known; remaining
				// and reset are not, so those headers stay off.
				log.Printf("rate limit check failed, admitting request: key=%s err=%v", caller.Key, err)
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(caller.Policy.Limit))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.UnixMilli(), 10))

			if !decision.Allowed {
				retryAfter := int(decision.RetryAfter(time.Now()).Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
					"error":     "rate limit exceeded",
					"limit":     decision.Limit,
					"remaining": 0,
					"reset_at":  decision.ResetAt.UnixMilli(),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware handles CORS
func (m *Middleware) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
