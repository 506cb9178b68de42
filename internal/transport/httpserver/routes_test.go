package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"housing-coop-go/internal/config"
	householddomain "housing-coop-go/internal/domain/household"
	"housing-coop-go/internal/metrics"
	"housing-coop-go/internal/transport/httpserver/handler"
	"housing-coop-go/internal/transport/httpserver/middleware"
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

func newTestRouter(m *metrics.Metrics) http.Handler {
	lookup := fakeLookup{
		"user": {ID: "user", Name: "Sued", Role: householddomain.RoleUser, Active: true},
	}
	handlers := handler.New(nil, nil, nil, nil, nil, nil, nil, nil, logger.Discard())
	cfg := config.Config{CORSOrigins: []string{"http://localhost:5173"}}
	return NewRouter(cfg, handlers, middleware.NewActorResolver(lookup, logger.Discard()), m)
}

func TestHealthIsPublic(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAdminRoutesRejectUsers(t *testing.T) {
	router := newTestRouter(nil)
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/households"},
		{http.MethodPost, "/api/transactions/abc/confirm"},
		{http.MethodPost, "/api/distributions"},
		{http.MethodPost, "/api/rounds/current/accept"},
		{http.MethodDelete, "/api/funds/abc"},
		{http.MethodGet, "/api/payments/missing"},
	}

	for _, route := range routes {
		req := httptest.NewRequest(route.method, route.path, strings.NewReader(`{}`))
		req.Header.Set(middleware.HeaderHouseholdID, "user")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403, got %d", route.method, route.path, rec.Code)
		}
	}
}

func TestAPIRequiresActor(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/funds", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMetricsEndpointMounted(t *testing.T) {
	router := newTestRouter(metrics.New())
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `route="/api/health"`) {
		t.Fatalf("expected health route in metrics, got %q", rec.Body.String())
	}
}
