package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	householddomain "housing-coop-go/internal/domain/household"
	"housing-coop-go/pkg/logger"
)

type fakeLookup map[string]householddomain.Household

func (f fakeLookup) GetHousehold(ctx context.Context, id string) (*householddomain.Household, error) {
	household, ok := f[id]
	if !ok {
		return nil, householddomain.ErrHouseholdNotFound
	}
	return &household, nil
}

func newActorHandler() http.Handler {
	lookup := fakeLookup{
		"admin": {ID: "admin", Name: "Nord", Role: householddomain.RoleAdmin, Active: true},
		"user":  {ID: "user", Name: "Sued", Role: householddomain.RoleUser, Active: true},
		"gone":  {ID: "gone", Name: "West", Role: householddomain.RoleUser, Active: false},
	}
	resolver := NewActorResolver(lookup, logger.Discard())
	return resolver.Middleware(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())
		w.Header().Set("X-Actor", actor.Name)
		w.WriteHeader(http.StatusNoContent)
	})))
}

func TestActorMiddleware(t *testing.T) {
	cases := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "unknown household", header: "nobody", status: http.StatusUnauthorized},
		{name: "inactive household", header: "gone", status: http.StatusForbidden},
		{name: "non-admin", header: "user", status: http.StatusForbidden},
		{name: "admin", header: "admin", status: http.StatusNoContent},
	}

	handler := newActorHandler()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/rounds", nil)
			if tc.header != "" {
				req.Header.Set(HeaderHouseholdID, tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d (%s)", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestActorStoredInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderHouseholdID, "admin")
	rec := httptest.NewRecorder()

	newActorHandler().ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Actor"); got != "Nord" {
		t.Fatalf("expected actor Nord, got %q", got)
	}
}

func TestCORSAllowsActorHeader(t *testing.T) {
	handler := NewCORS([]string{"http://localhost:5173"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/funds", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Authorization,Content-Type,X-Household-ID" {
		t.Fatalf("unexpected allowed headers %q", got)
	}
}

func TestCORSOriginPolicy(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name    string
		origins []string
		origin  string
		allowed bool
	}{
		{name: "listed with trailing slash", origins: []string{"https://coop.example/"}, origin: "https://coop.example", allowed: true},
		{name: "unlisted", origins: []string{"https://coop.example"}, origin: "https://evil.example", allowed: false},
		{name: "wildcard", origins: []string{" * "}, origin: "https://any.example", allowed: true},
		{name: "no origin header", origins: []string{"*"}, origin: "", allowed: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/funds", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			NewCORS(tc.origins)(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected request to reach handler, got %d", rec.Code)
			}
			got := rec.Header().Get("Access-Control-Allow-Origin")
			if tc.allowed && got != tc.origin {
				t.Fatalf("expected origin %q to be allowed, got %q", tc.origin, got)
			}
			if !tc.allowed && got != "" {
				t.Fatalf("expected no allow-origin header, got %q", got)
			}
		})
	}
}
