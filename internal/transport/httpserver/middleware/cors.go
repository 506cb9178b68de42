package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

const corsMaxAge = 24 * 60 * 60

var (
	corsMethods = strings.Join([]string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	}, ",")
	corsHeaders = strings.Join([]string{"Authorization", "Content-Type", HeaderHouseholdID}, ",")
)

type corsPolicy struct {
	origins   map[string]struct{}
	anyOrigin bool
}

func newCORSPolicy(origins []string) corsPolicy {
	policy := corsPolicy{origins: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		switch origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin {
		case "":
		case "*":
			policy.anyOrigin = true
		default:
			policy.origins[origin] = struct{}{}
		}
	}
	return policy
}

func (p corsPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.anyOrigin {
		return true
	}
	_, ok := p.origins[origin]
	return ok
}

// NewCORS answers browser preflights for the cooperative's web client. A "*" entry allows every origin.
func NewCORS(allowedOrigins []string) func(http.Handler) http.Handler {
	policy := newCORSPolicy(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := w.Header()
			header.Add("Vary", "Origin")

			if origin := r.Header.Get("Origin"); policy.allows(origin) {
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", corsMethods)
				header.Set("Access-Control-Allow-Headers", corsHeaders)
				header.Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))
			}

			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
